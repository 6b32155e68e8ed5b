package recipe

import (
	"encoding/base64"
	"errors"
	"testing"

	"foodgram-backend/domain"
)

func TestShortCodeRoundTrip(t *testing.T) {
	for _, id := range []uint{1, 42, 1000, 4294967295} {
		code := EncodeShortCode(id)

		decoded, err := DecodeShortCode(code)
		if err != nil {
			t.Fatalf("DecodeShortCode(%q) returned error: %v", code, err)
		}
		if decoded != id {
			t.Fatalf("DecodeShortCode(%q) = %d, want %d", code, decoded, id)
		}
	}
}

func TestDecodeShortCodeRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"not base64":   "!!!",
		"non numeric":  base64.URLEncoding.EncodeToString([]byte("abc")),
		"zero id":      base64.URLEncoding.EncodeToString([]byte("0")),
		"empty string": "",
	}

	for name, code := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeShortCode(code); !errors.Is(err, domain.ErrShortLinkNotFound) {
				t.Fatalf("DecodeShortCode(%q) error = %v, want ErrShortLinkNotFound", code, err)
			}
		})
	}
}
