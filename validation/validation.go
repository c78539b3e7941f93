package validation

import (
	"net/mail"
	"regexp"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records msg for field unless the field already has a violation.
func (v Violations) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v.Add(field, "must_be_positive")
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v.Add(field, "must_not_be_negative")
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}

func IntRange(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}

func MaxLen(field, value string, n int, v Violations) {
	if len([]rune(value)) > n {
		v.Add(field, "too_long")
	}
}

// OneOf rejects values outside allowed. Empty values pass; combine with Required.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if a == value {
			return
		}
	}
	v.Add(field, "invalid_choice")
}

func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@"):], ".") {
		v.Add(field, "Geben Sie eine gültige E-Mail-Adresse ein")
	}
}

var (
	germanMobile   = regexp.MustCompile(`^\+49(1[5-7][0-9])\d{7,8}$`)
	germanLandline = regexp.MustCompile(`^\+49\(\d{2,5}\)\d{3,}$`)
)

// GermanMobile checks numbers like +4915112345678. Empty values pass.
func GermanMobile(field, value string, v Violations) {
	if value != "" && !germanMobile.MatchString(value) {
		v.Add(field, "Geben Sie eine gültige deutsche Handynummer ein, die mit +49 beginnt.")
	}
}

// GermanLandline checks numbers like +49(030)1234567. Empty values pass.
func GermanLandline(field, value string, v Violations) {
	if value != "" && !germanLandline.MatchString(value) {
		v.Add(field, "Geben Sie eine gültige deutsche Festnetznummer ein, die mit +49 beginnt.")
	}
}
