package input

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// MaxTextSize bounds a single free-text field unless overridden through
// the ECOVOYAGE_MAX_INPUT_SIZE environment variable.
var MaxTextSize = 4096

const envMaxTextSize = "ECOVOYAGE_MAX_INPUT_SIZE"

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeText rejects oversized or malformed UTF-8 text and strips control
// characters other than tab, newline and carriage return.
// Oversized input is an error, never truncated.
func SanitizeText(s string) (string, error) {
	if limit := maxTextSize(); len(s) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(s), limit)
	}
	if !utf8.ValidString(s) {
		return "", ErrInvalidUTF8
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return -1
		}
		return r
	}, s), nil
}

func maxTextSize() int {
	if v, ok := os.LookupEnv(envMaxTextSize); ok {
		if n, err := cast.ToIntE(v); err == nil && n > 0 {
			return n
		}
	}
	return MaxTextSize
}
