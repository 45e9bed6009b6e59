// Package iban работает с испанскими IBAN: нормализация, проверка формата и
// контрольной суммы, код банка (entity code) и поиск IBAN в произвольном тексте.
package iban

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	CountryCode = "ES"
	// Length — длина испанского IBAN без пробелов: ES + 2 контрольные цифры + 20 цифр счёта.
	Length = 24
)

var (
	formatRegexp = regexp.MustCompile(`^ES\d{22}$`)
	// В тексте группы по 4 цифры могут разделяться любыми пробелами или дефисами.
	inTextRegexp = regexp.MustCompile(`(?i)\bES\d{2}(?:[\s\p{Zs}\-]*\d{4}){5}\b`)
)

// Normalize убирает все пробельные символы и дефисы и приводит к верхнему регистру.
// Строки, отличающиеся только пробелами, дают одинаковый результат.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ValidFormat проверяет форму испанского IBAN (без контрольной суммы).
func ValidFormat(s string) bool {
	return formatRegexp.MatchString(Normalize(s))
}

// ValidChecksum — проверка ISO 13616 (mod 97 == 1).
func ValidChecksum(s string) bool {
	clean := Normalize(s)
	if len(clean) < 5 {
		return false
	}
	rearranged := clean[4:] + clean[:4]

	remainder := 0
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			remainder = (remainder*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			v := int(r-'A') + 10
			remainder = (remainder*100 + v) % 97
		default:
			return false
		}
	}
	return remainder == 1
}

// Valid — формат и контрольная сумма одновременно.
func Valid(s string) bool {
	return ValidFormat(s) && ValidChecksum(s)
}

// EntityCode возвращает 4-значный код банка (позиции 5-8) или "".
func EntityCode(s string) string {
	clean := Normalize(s)
	if !strings.HasPrefix(clean, CountryCode) || len(clean) < 8 {
		return ""
	}
	return clean[4:8]
}

// NormalizePrefix приводит префикс банка к виду реестра: "ES91 0049" -> "ES0049".
// Полный IBAN тоже превращается в префикс его банка, голый код "0049" -> "ES0049".
func NormalizePrefix(prefix string) string {
	clean := Normalize(prefix)

	if len(clean) == 4 && isDigits(clean) {
		return CountryCode + clean
	}

	if strings.HasPrefix(clean, CountryCode) && len(clean) > 2 {
		if len(clean) == 6 && isDigits(clean[2:6]) {
			return clean
		}
		if len(clean) >= 6 {
			end := min(len(clean), 8)
			return CountryCode + clean[4:end]
		}
	}

	return clean
}

// FindAll находит все испанские IBAN в тексте и возвращает их в нормализованном виде.
func FindAll(text string) []string {
	matches := inTextRegexp.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, Normalize(m))
	}
	return out
}

// Mask заменяет найденные IBAN пробелом, чтобы цифры счёта не попадали в поиск телефонов.
func Mask(text string) string {
	return inTextRegexp.ReplaceAllString(text, " ")
}

// Format печатает IBAN группами по 4 символа.
func Format(s string) string {
	clean := Normalize(s)
	var b strings.Builder
	for i, r := range clean {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
