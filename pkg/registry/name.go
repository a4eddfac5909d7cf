package registry

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// forbiddenChars cannot appear anywhere in a profile name.
const forbiddenChars = `<>:"/\|?*`

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("profilename", validateProfileName)
}

func validateProfileName(fl validator.FieldLevel) bool {
	return IsValidName(fl.Field().String())
}

// IsValidName reports whether name is usable as a profile name. The first
// character may not be a digit or whitespace, the last may not be
// whitespace or a dot, and no character may be a control character or
// one of <>:"/\|?*. The 2 to 64 character length is enforced by the
// struct tags.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	runes := []rune(name)
	for _, r := range runes {
		if unicode.IsControl(r) || strings.ContainsRune(forbiddenChars, r) {
			return false
		}
	}
	first, last := runes[0], runes[len(runes)-1]
	if unicode.IsDigit(first) || unicode.IsSpace(first) {
		return false
	}
	if unicode.IsSpace(last) || last == '.' {
		return false
	}
	return true
}
