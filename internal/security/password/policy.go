package password

import (
	"context"
	"errors"
	"strings"
)

const MinLen = 8

var ErrTooShort = errors.New("weak_password.length")

// Warning is returned alongside an accepted password whose strength score is
// poor. Registration succeeds; clients may surface the hint.
type Warning struct {
	Score       int      `json:"score"` // 0..4
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// Validate trims and enforces only the hard minimum length. Everything else
// is advisory: userInputs (email, username) lower the score when the
// password contains them.
func Validate(ctx context.Context, pwd string, userInputs ...string) (trimmed string, warn *Warning, err error) {
	trimmed = strings.TrimSpace(pwd)
	if len(trimmed) < MinLen {
		return trimmed, nil, ErrTooShort
	}

	score, msg, sugg := strength(trimmed, userInputs...)
	if score < 3 {
		warn = &Warning{Score: score, Message: msg, Suggestions: sugg}
	}
	return trimmed, warn, nil
}

// strength is a coarse zxcvbn-style heuristic: length plus character-class
// variety, penalized when the password embeds a known user input.
func strength(pwd string, hints ...string) (int, string, []string) {
	l := len(pwd)
	var hasLower, hasUpper, hasDigit, hasOther bool
	for _, r := range pwd {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasOther = true
		}
	}
	classes := 0
	for _, b := range []bool{hasLower, hasUpper, hasDigit, hasOther} {
		if b {
			classes++
		}
	}

	lower := strings.ToLower(pwd)
	for _, h := range hints {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" && strings.Contains(lower, h) && l < 16 {
			if classes > 1 {
				classes--
			}
			break
		}
	}

	switch {
	case l >= 14 && classes >= 3:
		return 4, "", nil
	case l >= 12 && classes >= 3:
		return 3, "", []string{"Consider using a 3-4 word passphrase."}
	case l >= 10 && classes >= 2:
		return 2, "Short or low variety.", []string{"Add length and mix letters/numbers/symbols."}
	case l >= 8:
		return 1, "Too short or predictable.", []string{"Use at least 10-12 chars with mixed types."}
	default:
		return 0, "Very weak password.", []string{"Use 12+ chars with upper/lower, numbers, symbols."}
	}
}
