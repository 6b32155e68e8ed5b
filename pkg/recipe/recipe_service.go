package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/catalog"
	"foodgram-backend/pkg/user"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID uint, page, limit int) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, recipeID, viewerID uint) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID uint) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID uint, req domain.UpdateRecipeRequest, userID uint) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID, userID uint) error

		AddFavourite(ctx context.Context, recipeID, userID uint) (domain.RecipeShortResponse, error)
		RemoveFavourite(ctx context.Context, recipeID, userID uint) error
		AddToShoppingCart(ctx context.Context, recipeID, userID uint) (domain.RecipeShortResponse, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID, userID uint) error

		GetShortLink(ctx context.Context, recipeID uint) (domain.ShortLinkResponse, error)
		ResolveShortLink(code string) (string, error)
		DownloadShoppingCart(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		userRepository    user.UserRepository
		s3                storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	catalogRepository catalog.CatalogRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		userRepository:    userRepository,
		s3:                s3,
	}
}

// validateRecipePayload enforces the write-shape invariants shared by create
// and update: non-empty, duplicate-free ingredient and tag sets, amounts and
// cooking time at or above their minimums.
func validateRecipePayload(ingredients []domain.RecipeIngredientRequest, tags []uint, cookingTime int) error {
	if len(ingredients) == 0 {
		return domain.ErrIngredientsRequired
	}

	seenIngredients := make(map[uint]bool, len(ingredients))
	for _, ingredient := range ingredients {
		if seenIngredients[ingredient.ID] {
			return domain.ErrDuplicateIngredients
		}
		seenIngredients[ingredient.ID] = true

		if ingredient.Amount < domain.MinAmount {
			return domain.ErrInvalidAmount
		}
	}

	if len(tags) == 0 {
		return domain.ErrTagsRequired
	}

	seenTags := make(map[uint]bool, len(tags))
	for _, tagID := range tags {
		if seenTags[tagID] {
			return domain.ErrDuplicateTags
		}
		seenTags[tagID] = true
	}

	if cookingTime < domain.MinCookingTime {
		return domain.ErrInvalidCookingTime
	}

	return nil
}

func (s *recipeService) resolveTags(ctx context.Context, tagIDs []uint) ([]*entities.Tag, error) {
	tags, err := s.catalogRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, domain.ErrTagNotFound
	}
	return tags, nil
}

func (s *recipeService) resolveIngredients(ctx context.Context, reqs []domain.RecipeIngredientRequest) ([]*entities.RecipeIngredient, error) {
	ids := make([]uint, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.ID)
	}

	ingredients, err := s.catalogRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(ingredients) != len(ids) {
		return nil, domain.ErrIngredientNotFound
	}

	rows := make([]*entities.RecipeIngredient, 0, len(reqs))
	for _, req := range reqs {
		rows = append(rows, &entities.RecipeIngredient{
			IngredientID: req.ID,
			Amount:       req.Amount,
		})
	}
	return rows, nil
}

func (s *recipeService) uploadRecipeImage(ctx context.Context, payload string) (string, error) {
	data, ext, err := utils.DecodeBase64Image(payload)
	if err != nil || !storage.ExtAllowed(ext, storage.AllowImage) {
		return "", domain.ErrInvalidImagePayload
	}

	fileName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	objectKey, err := s.s3.UploadBytes(ctx, fileName, data, "recipes", storage.AllowImage...)
	if err != nil {
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) buildResponse(ctx context.Context, recipe *entities.Recipe, viewerID uint, favorited, inCart bool) (domain.RecipeResponse, error) {
	authorSubscribed := false
	if viewerID != 0 && recipe.Author != nil && recipe.Author.ID != viewerID {
		var err error
		authorSubscribed, err = s.userRepository.IsSubscribed(ctx, viewerID, recipe.Author.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tags = append(tags, catalog.TagToResponse(tag))
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(recipe.RecipeIngredients))
	for _, row := range recipe.RecipeIngredients {
		if row.Ingredient == nil {
			continue
		}
		ingredients = append(ingredients, domain.RecipeIngredientResponse{
			ID:              row.Ingredient.ID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	var author domain.UserResponse
	if recipe.Author != nil {
		author = user.UserToResponse(recipe.Author, authorSubscribed)
	}

	return domain.RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Image:            recipe.ImageURL,
		Name:             recipe.Name,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}, nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID uint, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	favSet := make(map[uint]bool)
	cartSet := make(map[uint]bool)
	if viewerID != 0 {
		favIDs, err := s.recipeRepository.GetFavouriteRecipeIDs(ctx, viewerID)
		if err != nil {
			return nil, 0, err
		}
		for _, id := range favIDs {
			favSet[id] = true
		}

		cartIDs, err := s.recipeRepository.GetCartRecipeIDs(ctx, viewerID)
		if err != nil {
			return nil, 0, err
		}
		for _, id := range cartIDs {
			cartSet[id] = true
		}
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res, err := s.buildResponse(ctx, recipe, viewerID, favSet[recipe.ID], cartSet[recipe.ID])
		if err != nil {
			return nil, 0, err
		}
		result = append(result, res)
	}

	return result, count, nil
}

func (s *recipeService) getRecipe(ctx context.Context, recipeID uint) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) viewFlags(ctx context.Context, recipeID, viewerID uint) (bool, bool, error) {
	if viewerID == 0 {
		return false, false, nil
	}

	favorited, err := s.recipeRepository.IsFavourited(ctx, viewerID, recipeID)
	if err != nil {
		return false, false, err
	}
	inCart, err := s.recipeRepository.IsInShoppingCart(ctx, viewerID, recipeID)
	if err != nil {
		return false, false, err
	}
	return favorited, inCart, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID, viewerID uint) (domain.RecipeResponse, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	favorited, inCart, err := s.viewFlags(ctx, recipeID, viewerID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.buildResponse(ctx, recipe, viewerID, favorited, inCart)
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID uint) (domain.RecipeResponse, error) {
	if err := validateRecipePayload(req.Ingredients, req.Tags, req.CookingTime); err != nil {
		return domain.RecipeResponse{}, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	ingredients, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL, err := s.uploadRecipeImage(ctx, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:          userID,
		Name:              req.Name,
		Text:              req.Text,
		CookingTime:       req.CookingTime,
		ImageURL:          imageURL,
		Tags:              tags,
		RecipeIngredients: ingredients,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	created, err := s.getRecipe(ctx, recipe.ID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.buildResponse(ctx, created, userID, false, false)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID uint, req domain.UpdateRecipeRequest, userID uint) (domain.RecipeResponse, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if recipe.AuthorID != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	if err := validateRecipePayload(req.Ingredients, req.Tags, req.CookingTime); err != nil {
		return domain.RecipeResponse{}, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	ingredients, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	for _, row := range ingredients {
		row.RecipeID = recipe.ID
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	if req.Image != "" {
		imageURL, err := s.uploadRecipeImage(ctx, req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.ImageURL = imageURL
	}

	recipe.Tags = nil
	recipe.RecipeIngredients = nil
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, tags, ingredients); err != nil {
		return domain.RecipeResponse{}, err
	}

	updated, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	favorited, inCart, err := s.viewFlags(ctx, recipeID, userID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.buildResponse(ctx, updated, userID, favorited, inCart)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, userID uint) error {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}

	if recipe.AuthorID != userID {
		return domain.ErrNotRecipeAuthor
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) AddFavourite(ctx context.Context, recipeID, userID uint) (domain.RecipeShortResponse, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}

	exists, err := s.recipeRepository.IsFavourited(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if exists {
		return domain.RecipeShortResponse{}, domain.ErrAlreadyFavourited
	}

	favourite := &entities.UserFavourite{UserID: userID, RecipeID: recipeID}
	if err := s.recipeRepository.CreateFavourite(ctx, favourite); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyFavourited
		}
		return domain.RecipeShortResponse{}, err
	}

	return user.RecipeToShortResponse(recipe), nil
}

func (s *recipeService) RemoveFavourite(ctx context.Context, recipeID, userID uint) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	rows, err := s.recipeRepository.DeleteFavourite(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotInFavourites
	}
	return nil
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID, userID uint) (domain.RecipeShortResponse, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}

	exists, err := s.recipeRepository.IsInShoppingCart(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if exists {
		return domain.RecipeShortResponse{}, domain.ErrAlreadyInCart
	}

	entry := &entities.UserShoppingCart{UserID: userID, RecipeID: recipeID}
	if err := s.recipeRepository.CreateCartEntry(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyInCart
		}
		return domain.RecipeShortResponse{}, err
	}

	return user.RecipeToShortResponse(recipe), nil
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID, userID uint) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	rows, err := s.recipeRepository.DeleteCartEntry(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotInCart
	}
	return nil
}

func (s *recipeService) GetShortLink(ctx context.Context, recipeID uint) (domain.ShortLinkResponse, error) {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return domain.ShortLinkResponse{}, err
	}

	appURL := utils.GetConfig("APP_URL")
	return domain.ShortLinkResponse{
		ShortLink: fmt.Sprintf("%s/s/%s", appURL, EncodeShortCode(recipeID)),
	}, nil
}

func (s *recipeService) ResolveShortLink(code string) (string, error) {
	recipeID, err := DecodeShortCode(code)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/api/v1/recipes/%d", recipeID), nil
}

func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error) {
	cartIDs, err := s.recipeRepository.GetCartRecipeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartIDs) == 0 {
		return nil, domain.ErrShoppingCartEmpty
	}

	items, err := s.recipeRepository.GetShoppingCartIngredients(ctx, userID)
	if err != nil {
		return nil, err
	}

	return AggregateShoppingList(items), nil
}
