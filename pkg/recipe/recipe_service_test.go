package recipe

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
)

type fakeRecipeRepository struct {
	recipes     map[uint]*entities.Recipe
	favourites  map[uint]map[uint]bool
	carts       map[uint]map[uint]bool
	ingredients map[uint]*entities.Ingredient
	nextID      uint
}

func newFakeRecipeRepository(ingredients map[uint]*entities.Ingredient) *fakeRecipeRepository {
	return &fakeRecipeRepository{
		recipes:     make(map[uint]*entities.Recipe),
		favourites:  make(map[uint]map[uint]bool),
		carts:       make(map[uint]map[uint]bool),
		ingredients: ingredients,
	}
}

func (r *fakeRecipeRepository) hydrate(recipe *entities.Recipe) {
	if recipe.Author == nil {
		recipe.Author = &entities.User{
			ID:       recipe.AuthorID,
			Username: fmt.Sprintf("user%d", recipe.AuthorID),
			Email:    fmt.Sprintf("user%d@example.com", recipe.AuthorID),
		}
	}
	for _, row := range recipe.RecipeIngredients {
		row.RecipeID = recipe.ID
		if row.Ingredient == nil {
			row.Ingredient = r.ingredients[row.IngredientID]
		}
	}
}

func (r *fakeRecipeRepository) CreateRecipe(_ context.Context, recipe *entities.Recipe) error {
	r.nextID++
	recipe.ID = r.nextID
	r.hydrate(recipe)
	r.recipes[recipe.ID] = recipe
	return nil
}

func (r *fakeRecipeRepository) UpdateRecipe(_ context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []*entities.RecipeIngredient) error {
	stored, ok := r.recipes[recipe.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	recipe.Author = stored.Author
	recipe.Tags = tags
	recipe.RecipeIngredients = ingredients
	r.hydrate(recipe)
	r.recipes[recipe.ID] = recipe
	return nil
}

func (r *fakeRecipeRepository) GetRecipeByID(_ context.Context, id uint) (*entities.Recipe, error) {
	recipe, ok := r.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return recipe, nil
}

func (r *fakeRecipeRepository) DeleteRecipe(_ context.Context, id uint) error {
	delete(r.recipes, id)
	for _, set := range r.favourites {
		delete(set, id)
	}
	for _, set := range r.carts {
		delete(set, id)
	}
	return nil
}

func (r *fakeRecipeRepository) GetRecipes(_ context.Context, _ domain.RecipeFilter, _ uint, _, _ int) ([]*entities.Recipe, int64, error) {
	result := make([]*entities.Recipe, 0, len(r.recipes))
	for id := r.nextID; id > 0; id-- {
		if recipe, ok := r.recipes[id]; ok {
			result = append(result, recipe)
		}
	}
	return result, int64(len(result)), nil
}

func membershipIDs(sets map[uint]map[uint]bool, userID uint) []uint {
	var ids []uint
	for id := range sets[userID] {
		ids = append(ids, id)
	}
	return ids
}

func (r *fakeRecipeRepository) GetFavouriteRecipeIDs(_ context.Context, userID uint) ([]uint, error) {
	return membershipIDs(r.favourites, userID), nil
}

func (r *fakeRecipeRepository) IsFavourited(_ context.Context, userID, recipeID uint) (bool, error) {
	return r.favourites[userID][recipeID], nil
}

func (r *fakeRecipeRepository) CreateFavourite(_ context.Context, favourite *entities.UserFavourite) error {
	if r.favourites[favourite.UserID] == nil {
		r.favourites[favourite.UserID] = make(map[uint]bool)
	}
	if r.favourites[favourite.UserID][favourite.RecipeID] {
		return gorm.ErrDuplicatedKey
	}
	r.favourites[favourite.UserID][favourite.RecipeID] = true
	return nil
}

func (r *fakeRecipeRepository) DeleteFavourite(_ context.Context, userID, recipeID uint) (int64, error) {
	if !r.favourites[userID][recipeID] {
		return 0, nil
	}
	delete(r.favourites[userID], recipeID)
	return 1, nil
}

func (r *fakeRecipeRepository) GetCartRecipeIDs(_ context.Context, userID uint) ([]uint, error) {
	return membershipIDs(r.carts, userID), nil
}

func (r *fakeRecipeRepository) IsInShoppingCart(_ context.Context, userID, recipeID uint) (bool, error) {
	return r.carts[userID][recipeID], nil
}

func (r *fakeRecipeRepository) CreateCartEntry(_ context.Context, entry *entities.UserShoppingCart) error {
	if r.carts[entry.UserID] == nil {
		r.carts[entry.UserID] = make(map[uint]bool)
	}
	if r.carts[entry.UserID][entry.RecipeID] {
		return gorm.ErrDuplicatedKey
	}
	r.carts[entry.UserID][entry.RecipeID] = true
	return nil
}

func (r *fakeRecipeRepository) DeleteCartEntry(_ context.Context, userID, recipeID uint) (int64, error) {
	if !r.carts[userID][recipeID] {
		return 0, nil
	}
	delete(r.carts[userID], recipeID)
	return 1, nil
}

func (r *fakeRecipeRepository) GetShoppingCartIngredients(_ context.Context, userID uint) ([]*entities.RecipeIngredient, error) {
	var rows []*entities.RecipeIngredient
	for recipeID := range r.carts[userID] {
		if recipe, ok := r.recipes[recipeID]; ok {
			rows = append(rows, recipe.RecipeIngredients...)
		}
	}
	return rows, nil
}

type fakeCatalogRepository struct {
	tags        map[uint]*entities.Tag
	ingredients map[uint]*entities.Ingredient
}

func (r *fakeCatalogRepository) GetTags(_ context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	for _, tag := range r.tags {
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *fakeCatalogRepository) GetTagByID(_ context.Context, id uint) (*entities.Tag, error) {
	tag, ok := r.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tag, nil
}

func (r *fakeCatalogRepository) GetTagsByIDs(_ context.Context, ids []uint) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	for _, id := range ids {
		if tag, ok := r.tags[id]; ok {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func (r *fakeCatalogRepository) GetIngredients(_ context.Context, _ string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	for _, ingredient := range r.ingredients {
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

func (r *fakeCatalogRepository) GetIngredientByID(_ context.Context, id uint) (*entities.Ingredient, error) {
	ingredient, ok := r.ingredients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ingredient, nil
}

func (r *fakeCatalogRepository) GetIngredientsByIDs(_ context.Context, ids []uint) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	for _, id := range ids {
		if ingredient, ok := r.ingredients[id]; ok {
			ingredients = append(ingredients, ingredient)
		}
	}
	return ingredients, nil
}

type fakeUserRepository struct {
	subscriptions map[uint]map[uint]bool
}

func (r *fakeUserRepository) CreateUser(_ context.Context, _ *entities.User) error { return nil }
func (r *fakeUserRepository) GetUserByID(_ context.Context, _ uint) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeUserRepository) GetUserByEmail(_ context.Context, _ string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeUserRepository) GetUserByUsername(_ context.Context, _ string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeUserRepository) UpdateUser(_ context.Context, _ *entities.User) error { return nil }
func (r *fakeUserRepository) IsSubscribed(_ context.Context, subscriberID, subscribedToID uint) (bool, error) {
	return r.subscriptions[subscriberID][subscribedToID], nil
}
func (r *fakeUserRepository) CreateSubscription(_ context.Context, _ *entities.Subscription) error {
	return nil
}
func (r *fakeUserRepository) DeleteSubscription(_ context.Context, _, _ uint) (int64, error) {
	return 0, nil
}
func (r *fakeUserRepository) GetSubscribedUsers(_ context.Context, _ uint, _, _ int) ([]*entities.User, int64, error) {
	return nil, 0, nil
}
func (r *fakeUserRepository) GetAuthorRecipes(_ context.Context, _ uint, _ int) ([]*entities.Recipe, error) {
	return nil, nil
}
func (r *fakeUserRepository) CountAuthorRecipes(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}

type fakeS3 struct{}

func (f *fakeS3) UploadBytes(_ context.Context, fileName string, _ []byte, dir string, _ ...string) (string, error) {
	return dir + "/" + fileName, nil
}

func (f *fakeS3) DeleteFile(_ context.Context, _ string) error { return nil }

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://test-bucket.s3.eu-test-1.amazonaws.com/" + objectKey
}

func testImagePayload() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47})
}

func newTestService() (RecipeService, *fakeRecipeRepository) {
	ingredients := map[uint]*entities.Ingredient{
		1: {ID: 1, Name: "мука", MeasurementUnit: "г"},
		2: {ID: 2, Name: "яйцо", MeasurementUnit: "шт"},
	}
	tags := map[uint]*entities.Tag{
		1: {ID: 1, Name: "завтрак", Slug: "breakfast"},
		2: {ID: 2, Name: "ужин", Slug: "dinner"},
	}

	repo := newFakeRecipeRepository(ingredients)
	catalogRepo := &fakeCatalogRepository{tags: tags, ingredients: ingredients}
	userRepo := &fakeUserRepository{subscriptions: make(map[uint]map[uint]bool)}

	return NewRecipeService(repo, catalogRepo, userRepo, &fakeS3{}), repo
}

func validCreateRequest() domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Name:        "Блины",
		Text:        "Смешать и жарить.",
		CookingTime: 20,
		Image:       testImagePayload(),
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: 1, Amount: 200},
			{ID: 2, Amount: 2},
		},
		Tags: []uint{1},
	}
}

func TestCreateRecipe(t *testing.T) {
	service, _ := newTestService()

	res, err := service.CreateRecipe(context.Background(), validCreateRequest(), 7)
	if err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}

	if res.ID == 0 {
		t.Error("expected a non-zero recipe id")
	}
	if res.Author.ID != 7 {
		t.Errorf("expected author id 7, got %d", res.Author.ID)
	}
	if len(res.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(res.Ingredients))
	}
	if res.Ingredients[0].Name == "" || res.Ingredients[0].MeasurementUnit == "" {
		t.Error("ingredient rows must be flattened with name and unit")
	}
	if len(res.Tags) != 1 || res.Tags[0].Slug != "breakfast" {
		t.Errorf("unexpected tags in response: %+v", res.Tags)
	}
	if res.IsFavorited || res.IsInShoppingCart {
		t.Error("a fresh recipe must not carry viewer flags")
	}
	if !strings.Contains(res.Image, "recipes/") {
		t.Errorf("expected image stored under recipes/, got %q", res.Image)
	}
}

func TestCreateRecipeValidation(t *testing.T) {
	service, _ := newTestService()

	cases := []struct {
		name    string
		mutate  func(*domain.CreateRecipeRequest)
		wantErr error
	}{
		{
			name:    "no ingredients",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Ingredients = nil },
			wantErr: domain.ErrIngredientsRequired,
		},
		{
			name: "duplicate ingredients",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Ingredients = append(r.Ingredients, domain.RecipeIngredientRequest{ID: 1, Amount: 50})
			},
			wantErr: domain.ErrDuplicateIngredients,
		},
		{
			name:    "amount below minimum",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Ingredients[0].Amount = 0 },
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "no tags",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Tags = nil },
			wantErr: domain.ErrTagsRequired,
		},
		{
			name:    "duplicate tags",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Tags = []uint{1, 1} },
			wantErr: domain.ErrDuplicateTags,
		},
		{
			name:    "cooking time below minimum",
			mutate:  func(r *domain.CreateRecipeRequest) { r.CookingTime = 0 },
			wantErr: domain.ErrInvalidCookingTime,
		},
		{
			name:    "unknown tag",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Tags = []uint{99} },
			wantErr: domain.ErrTagNotFound,
		},
		{
			name: "unknown ingredient",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Ingredients = []domain.RecipeIngredientRequest{{ID: 99, Amount: 10}}
			},
			wantErr: domain.ErrIngredientNotFound,
		},
		{
			name:    "image is not a data uri",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Image = "not an image" },
			wantErr: domain.ErrInvalidImagePayload,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)

			if _, err := service.CreateRecipe(context.Background(), req, 7); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUpdateRecipeOnlyAuthor(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateRecipe(context.Background(), validCreateRequest(), 7)
	if err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}

	update := domain.UpdateRecipeRequest{
		Name:        "Блины новые",
		Text:        "Обновлённый текст.",
		CookingTime: 30,
		Ingredients: []domain.RecipeIngredientRequest{{ID: 1, Amount: 150}},
		Tags:        []uint{2},
	}

	if _, err := service.UpdateRecipe(context.Background(), created.ID, update, 8); !errors.Is(err, domain.ErrNotRecipeAuthor) {
		t.Fatalf("expected ErrNotRecipeAuthor for a stranger, got %v", err)
	}

	res, err := service.UpdateRecipe(context.Background(), created.ID, update, 7)
	if err != nil {
		t.Fatalf("UpdateRecipe by the author returned error: %v", err)
	}
	if res.Name != "Блины новые" || res.CookingTime != 30 {
		t.Errorf("update did not apply: %+v", res)
	}
	if res.Image != created.Image {
		t.Errorf("omitted image must keep the stored one, got %q", res.Image)
	}
	if len(res.Tags) != 1 || res.Tags[0].Slug != "dinner" {
		t.Errorf("tags were not replaced: %+v", res.Tags)
	}
}

func TestDeleteRecipe(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateRecipe(context.Background(), validCreateRequest(), 7)
	if err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}

	if err := service.DeleteRecipe(context.Background(), created.ID, 8); !errors.Is(err, domain.ErrNotRecipeAuthor) {
		t.Fatalf("expected ErrNotRecipeAuthor, got %v", err)
	}
	if err := service.DeleteRecipe(context.Background(), created.ID, 7); err != nil {
		t.Fatalf("DeleteRecipe by the author returned error: %v", err)
	}
	if _, err := service.GetRecipeDetail(context.Background(), created.ID, 0); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound after delete, got %v", err)
	}
}

func TestFavouriteLifecycle(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateRecipe(context.Background(), validCreateRequest(), 7)
	if err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}

	short, err := service.AddFavourite(context.Background(), created.ID, 9)
	if err != nil {
		t.Fatalf("AddFavourite returned error: %v", err)
	}
	if short.ID != created.ID || short.Name != created.Name {
		t.Errorf("unexpected short response: %+v", short)
	}

	if _, err := service.AddFavourite(context.Background(), created.ID, 9); !errors.Is(err, domain.ErrAlreadyFavourited) {
		t.Fatalf("expected ErrAlreadyFavourited, got %v", err)
	}

	detail, err := service.GetRecipeDetail(context.Background(), created.ID, 9)
	if err != nil {
		t.Fatalf("GetRecipeDetail returned error: %v", err)
	}
	if !detail.IsFavorited {
		t.Error("expected is_favorited true for the favouriting viewer")
	}

	if err := service.RemoveFavourite(context.Background(), created.ID, 9); err != nil {
		t.Fatalf("RemoveFavourite returned error: %v", err)
	}
	if err := service.RemoveFavourite(context.Background(), created.ID, 9); !errors.Is(err, domain.ErrNotInFavourites) {
		t.Fatalf("expected ErrNotInFavourites, got %v", err)
	}

	if _, err := service.AddFavourite(context.Background(), 999, 9); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound for unknown recipe, got %v", err)
	}
}

func TestShoppingCartLifecycle(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateRecipe(context.Background(), validCreateRequest(), 7)
	if err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}

	if _, err := service.DownloadShoppingCart(context.Background(), 9); !errors.Is(err, domain.ErrShoppingCartEmpty) {
		t.Fatalf("expected ErrShoppingCartEmpty, got %v", err)
	}

	if _, err := service.AddToShoppingCart(context.Background(), created.ID, 9); err != nil {
		t.Fatalf("AddToShoppingCart returned error: %v", err)
	}
	if _, err := service.AddToShoppingCart(context.Background(), created.ID, 9); !errors.Is(err, domain.ErrAlreadyInCart) {
		t.Fatalf("expected ErrAlreadyInCart, got %v", err)
	}

	items, err := service.DownloadShoppingCart(context.Background(), 9)
	if err != nil {
		t.Fatalf("DownloadShoppingCart returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 aggregated rows, got %d", len(items))
	}

	if err := service.RemoveFromShoppingCart(context.Background(), created.ID, 9); err != nil {
		t.Fatalf("RemoveFromShoppingCart returned error: %v", err)
	}
	if err := service.RemoveFromShoppingCart(context.Background(), created.ID, 9); !errors.Is(err, domain.ErrNotInCart) {
		t.Fatalf("expected ErrNotInCart, got %v", err)
	}
}

func TestGetRecipesViewerFlags(t *testing.T) {
	service, _ := newTestService()

	first, err := service.CreateRecipe(context.Background(), validCreateRequest(), 7)
	if err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}
	second := validCreateRequest()
	second.Name = "Омлет"
	if _, err := service.CreateRecipe(context.Background(), second, 7); err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}

	if _, err := service.AddFavourite(context.Background(), first.ID, 9); err != nil {
		t.Fatalf("AddFavourite returned error: %v", err)
	}

	recipes, count, err := service.GetRecipes(context.Background(), domain.RecipeFilter{}, 9, 1, 10)
	if err != nil {
		t.Fatalf("GetRecipes returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}

	for _, res := range recipes {
		want := res.ID == first.ID
		if res.IsFavorited != want {
			t.Errorf("recipe %d: is_favorited = %v, want %v", res.ID, res.IsFavorited, want)
		}
	}
}

func TestShortLinkFlow(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateRecipe(context.Background(), validCreateRequest(), 7)
	if err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}

	link, err := service.GetShortLink(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetShortLink returned error: %v", err)
	}
	code := EncodeShortCode(created.ID)
	if !strings.HasSuffix(link.ShortLink, "/s/"+code) {
		t.Errorf("short link %q does not end with /s/%s", link.ShortLink, code)
	}

	path, err := service.ResolveShortLink(code)
	if err != nil {
		t.Fatalf("ResolveShortLink returned error: %v", err)
	}
	if want := fmt.Sprintf("/api/v1/recipes/%d", created.ID); path != want {
		t.Errorf("resolved path = %q, want %q", path, want)
	}

	if _, err := service.ResolveShortLink("???"); !errors.Is(err, domain.ErrShortLinkNotFound) {
		t.Fatalf("expected ErrShortLinkNotFound, got %v", err)
	}

	if _, err := service.GetShortLink(context.Background(), 999); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound for unknown recipe, got %v", err)
	}
}
