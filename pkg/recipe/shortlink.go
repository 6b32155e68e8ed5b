package recipe

import (
	"encoding/base64"
	"strconv"

	"foodgram-backend/domain"
)

// EncodeShortCode wraps a recipe id into a URL-safe base64 token. The token
// encodes the decimal id, so it decodes back without any lookup table.
func EncodeShortCode(id uint) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// DecodeShortCode reverses EncodeShortCode. Any malformed token maps to
// domain.ErrShortLinkNotFound rather than a distinct parse error.
func DecodeShortCode(code string) (uint, error) {
	raw, err := base64.URLEncoding.DecodeString(code)
	if err != nil {
		return 0, domain.ErrShortLinkNotFound
	}

	id, err := strconv.ParseUint(string(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.ErrShortLinkNotFound
	}

	return uint(id), nil
}
