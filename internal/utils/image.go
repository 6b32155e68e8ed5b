package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrNotBase64Image = errors.New("payload is not a base64 encoded image")

// DecodeBase64Image decodes a data-URI payload of the form
// "data:image/<ext>;base64,<data>" and returns the raw bytes together with
// the image extension.
func DecodeBase64Image(payload string) ([]byte, string, error) {
	if !strings.HasPrefix(payload, "data:image/") {
		return nil, "", ErrNotBase64Image
	}

	parts := strings.SplitN(payload, ";base64,", 2)
	if len(parts) != 2 {
		return nil, "", ErrNotBase64Image
	}

	ext := strings.TrimPrefix(parts[0], "data:image/")
	if ext == "" {
		return nil, "", ErrNotBase64Image
	}

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", ErrNotBase64Image
	}

	return data, ext, nil
}
