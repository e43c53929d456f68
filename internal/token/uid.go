package token

import (
	"encoding/base64"
	"strconv"
)

// EncodeUID renders a user id for activation URLs as unpadded URL-safe base64.
func EncodeUID(id uint64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(id, 10)))
}

// DecodeUID reverses EncodeUID. Padded input is accepted too.
func DecodeUID(s string) (uint64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(trimPadding(s))
	if err != nil {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func trimPadding(s string) string {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return s
}
