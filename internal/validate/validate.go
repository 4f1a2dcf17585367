package validate

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RequireBounded trims and ensures length bounds.
func RequireBounded(name, s string, min, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < min || utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// ISBN normalizes (strips hyphens/spaces, uppercases) and checks ISBN-10 or
// ISBN-13 shape. No checksum verification; sellers type these by hand.
func ISBN(raw string) (string, error) {
	s := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw)))
	switch len(s) {
	case 10:
		for i, r := range s {
			if r >= '0' && r <= '9' {
				continue
			}
			if r == 'X' && i == 9 {
				continue
			}
			return "", errors.New("invalid ISBN-10")
		}
	case 13:
		for _, r := range s {
			if r < '0' || r > '9' {
				return "", errors.New("invalid ISBN-13")
			}
		}
	default:
		return "", errors.New("ISBN must be 10 or 13 characters")
	}
	return s, nil
}

// ClampLimitOffset parses and clamps paging.
func ClampLimitOffset(limitRaw, offsetRaw string, def, max int) (int, int) {
	limit := def
	if v, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil && v >= 1 && v <= max {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(strings.TrimSpace(offsetRaw)); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
