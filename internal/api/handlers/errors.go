package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"foodgram-backend/domain"
)

// validationErrors are the service errors callers can fix by changing the
// request. Unknown tag/ingredient ids inside recipe writes belong here: in
// that context they are payload failures, not lookups.
var validationErrors = []error{
	domain.ErrEmailAlreadyExists,
	domain.ErrUsernameAlreadyTaken,
	domain.ErrUserAlreadyRegistered,
	domain.ErrCredentialsInvalid,
	domain.ErrSelfSubscription,
	domain.ErrAlreadySubscribed,
	domain.ErrNotSubscribed,
	domain.ErrInvalidAvatarPayload,
	domain.ErrInvalidRecipesLimit,
	domain.ErrIngredientsRequired,
	domain.ErrDuplicateIngredients,
	domain.ErrInvalidAmount,
	domain.ErrTagsRequired,
	domain.ErrDuplicateTags,
	domain.ErrInvalidCookingTime,
	domain.ErrInvalidImagePayload,
	domain.ErrAlreadyFavourited,
	domain.ErrNotInFavourites,
	domain.ErrAlreadyInCart,
	domain.ErrNotInCart,
	domain.ErrShoppingCartEmpty,
	domain.ErrInvalidAuthorFilter,
	domain.ErrTagNotFound,
	domain.ErrIngredientNotFound,
}

// statusCode picks the HTTP status for a service error. Middleware owns 401;
// services surface 403 and 404 explicitly; validation and duplicate errors
// are enumerated as 400. Anything else is an internal failure.
func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrAvatarNotSet),
		errors.Is(err, domain.ErrShortLinkNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotRecipeAuthor),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	}
	for _, known := range validationErrors {
		if errors.Is(err, known) {
			return fiber.StatusBadRequest
		}
	}
	return fiber.StatusInternalServerError
}
