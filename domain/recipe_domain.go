package domain

import (
	"errors"
)

const (
	MinCookingTime = 1
	MinAmount      = 1
)

var (
	MessageSuccessGetRecipes       = "success get recipes"
	MessageSuccessGetRecipeDetail  = "success get recipe detail"
	MessageSuccessCreateRecipe     = "recipe created successfully"
	MessageSuccessUpdateRecipe     = "recipe updated successfully"
	MessageSuccessDeleteRecipe     = "recipe deleted successfully"
	MessageSuccessAddFavourite     = "recipe added to favourites"
	MessageSuccessRemoveFavourite  = "recipe removed from favourites"
	MessageSuccessAddToCart        = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart   = "recipe removed from shopping cart"
	MessageSuccessGetShortLink     = "success get short link"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedFavourite       = "failed to update favourites"
	MessageFailedShoppingCart    = "failed to update shopping cart"
	MessageFailedDownloadCart    = "failed to download shopping cart"
	MessageFailedGetShortLink    = "failed to get short link"

	ErrRecipeNotFound       = errors.New("recipe not found")
	ErrNotRecipeAuthor      = errors.New("only the author can modify this recipe")
	ErrIngredientsRequired  = errors.New("at least one ingredient is required")
	ErrDuplicateIngredients = errors.New("ingredients must not repeat")
	ErrInvalidAmount        = errors.New("ingredient amount is below the minimum")
	ErrTagsRequired         = errors.New("at least one tag is required")
	ErrDuplicateTags        = errors.New("tags must not repeat")
	ErrInvalidCookingTime   = errors.New("cooking time is below the minimum")
	ErrInvalidImagePayload  = errors.New("image must be a base64 encoded image")
	ErrAlreadyFavourited    = errors.New("recipe is already in favourites")
	ErrNotInFavourites      = errors.New("recipe is not in favourites")
	ErrAlreadyInCart        = errors.New("recipe is already in the shopping cart")
	ErrNotInCart            = errors.New("recipe is not in the shopping cart")
	ErrShoppingCartEmpty    = errors.New("shopping cart is empty")
	ErrShortLinkNotFound    = errors.New("short link not found")
	ErrInvalidAuthorFilter  = errors.New("author must be an integer user id")
)

type (
	RecipeIngredientRequest struct {
		ID     uint `json:"id" validate:"required"`
		Amount int  `json:"amount" validate:"required"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=256"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required"`
		Image       string                    `json:"image" validate:"required"`
		Ingredients []RecipeIngredientRequest `json:"ingredients"`
		Tags        []uint                    `json:"tags"`
	}

	UpdateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=256"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required"`
		Image       string                    `json:"image" validate:"omitempty"`
		Ingredients []RecipeIngredientRequest `json:"ingredients"`
		Tags        []uint                    `json:"tags"`
	}

	RecipeIngredientResponse struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               uint                       `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Image            string                     `json:"image"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	RecipeShortResponse struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	// RecipeFilter carries the listing filters already parsed from the query
	// string. Nil pointer fields mean the filter was not supplied.
	RecipeFilter struct {
		IsFavorited      *bool
		IsInShoppingCart *bool
		Tags             []string
		AuthorID         *uint
	}

	ShortLinkResponse struct {
		ShortLink string `json:"short-link"`
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}
)
