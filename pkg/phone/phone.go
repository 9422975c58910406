// Package phone normaliza y valida números móviles de India.
package phone

import (
	"regexp"
	"strings"
)

var (
	nonDigits     = regexp.MustCompile(`\D`)
	nonDigitsPlus = regexp.MustCompile(`[^\d+]`)
	tenDigit      = regexp.MustCompile(`^[6-9]\d{9}$`)
	twelveDigit   = regexp.MustCompile(`^91[6-9]\d{9}$`)
)

// Format convierte el número a E.164 (+91XXXXXXXXXX). Si no reconoce el formato lo devuelve sin cambios.
func Format(p string) string {
	if p == "" {
		return ""
	}
	cleaned := nonDigits.ReplaceAllString(p, "")
	switch {
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "91"):
		return "+" + cleaned
	case len(cleaned) == 10:
		return "+91" + cleaned
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "0"):
		return "+91" + cleaned[1:]
	}
	return p
}

// Display formatea +919876543210 como "+91 98765 43210".
func Display(p string) string {
	if p == "" {
		return ""
	}
	cleaned := nonDigitsPlus.ReplaceAllString(p, "")
	if strings.HasPrefix(cleaned, "+91") && len(cleaned) == 13 {
		return cleaned[:3] + " " + cleaned[3:8] + " " + cleaned[8:]
	}
	return cleaned
}

// IsValidIndian valida un móvil indio de 10 dígitos (6-9 inicial) o con prefijo 91.
func IsValidIndian(p string) bool {
	cleaned := nonDigits.ReplaceAllString(p, "")
	switch len(cleaned) {
	case 10:
		return tenDigit.MatchString(cleaned)
	case 12:
		return twelveDigit.MatchString(cleaned)
	}
	return false
}
