package handlers

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"foodgram-backend/domain"
)

func TestParseBoolFilter(t *testing.T) {
	truthy := []string{"1", "true"}
	for _, raw := range truthy {
		v := parseBoolFilter(raw)
		if v == nil || !*v {
			t.Errorf("parseBoolFilter(%q) should yield true", raw)
		}
	}

	falsy := []string{"0", "false"}
	for _, raw := range falsy {
		v := parseBoolFilter(raw)
		if v == nil || *v {
			t.Errorf("parseBoolFilter(%q) should yield false", raw)
		}
	}

	for _, raw := range []string{"", "yes", "2", "TRUE"} {
		if parseBoolFilter(raw) != nil {
			t.Errorf("parseBoolFilter(%q) should be ignored", raw)
		}
	}
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{domain.ErrUserNotFound, fiber.StatusNotFound},
		{domain.ErrShortLinkNotFound, fiber.StatusNotFound},
		{domain.ErrAvatarNotSet, fiber.StatusNotFound},
		{domain.ErrNotRecipeAuthor, fiber.StatusForbidden},
		{domain.ErrAlreadyFavourited, fiber.StatusBadRequest},
		{domain.ErrTagNotFound, fiber.StatusBadRequest},
		{domain.ErrIngredientNotFound, fiber.StatusBadRequest},
		{domain.ErrSelfSubscription, fiber.StatusBadRequest},
		{domain.ErrShoppingCartEmpty, fiber.StatusBadRequest},
		{domain.ErrUserAlreadyRegistered, fiber.StatusBadRequest},
		// store or infrastructure failures must not read as client errors
		{errors.New("dial tcp: connection refused"), fiber.StatusInternalServerError},
		{gorm.ErrInvalidTransaction, fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := statusCode(tc.err); got != tc.want {
			t.Errorf("statusCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
