package utils

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	spainRegion      = "ES"
	spainCallingCode = "34"
)

var (
	nonDigitRegexp = regexp.MustCompile(`\D`)
	phoneCharsOnly = regexp.MustCompile(`^\s*\+?[\d\s.\-()]+$`)

	// Первая ветка: номер с кодом страны (+34 / 0034), дальше любые 9 цифр, проверяем их потом.
	// Вторая ветка: голый мобильный 6xx/7xx. Между цифрами до двух пробелов, точек или дефисов.
	phoneCandidateRegexp = regexp.MustCompile(
		`(?:\+|\b00)34[\s.\-]*(\d(?:[ .\-]{0,2}\d){8})\b|\b([67]\d{2}(?:[ .\-]{0,2}\d){6})\b`,
	)
	// Номер не должен продолжаться цифрой: "612 345 678 9" и "612345678.5" не телефоны.
	digitContinuation = regexp.MustCompile(`^[ .\-]?\d`)
)

// NormalizeSpanishMobile приводит испанский мобильный номер к E.164 (+34XXXXXXXXX).
// Принимаются только 9 цифр, начинающиеся с 6 или 7, с необязательным кодом 34/0034.
func NormalizeSpanishMobile(phone string) (string, bool) {
	if !phoneCharsOnly.MatchString(phone) {
		return "", false
	}
	digitsOnly := nonDigitRegexp.ReplaceAllString(phone, "")

	// Плюс допустим только перед кодом Испании.
	if strings.HasPrefix(strings.TrimSpace(phone), "+") {
		if len(digitsOnly) != 11 || digitsOnly[:2] != spainCallingCode {
			return "", false
		}
	}

	switch {
	case len(digitsOnly) == 13 && digitsOnly[:4] == "00"+spainCallingCode:
		digitsOnly = digitsOnly[4:]
	case len(digitsOnly) == 11 && digitsOnly[:2] == spainCallingCode:
		digitsOnly = digitsOnly[2:]
	}

	if !isSpanishMobile(digitsOnly) {
		return "", false
	}
	return formatE164(digitsOnly), true
}

// ExtractSpanishMobiles находит все мобильные номера в тексте.
// Результат нормализован, без повторов, в порядке первого появления.
func ExtractSpanishMobiles(text string) []string {
	matches := phoneCandidateRegexp.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var phones []string
	for _, m := range matches {
		start, end := m[0], m[1]
		if digitContinuation.MatchString(text[end:]) {
			continue
		}
		var candidate string
		switch {
		case m[2] >= 0:
			candidate = text[m[2]:m[3]]
		default:
			// "+612345678" без кода страны не принимаем.
			if start > 0 && text[start-1] == '+' {
				continue
			}
			candidate = text[m[4]:m[5]]
		}
		digits := nonDigitRegexp.ReplaceAllString(candidate, "")
		if !isSpanishMobile(digits) {
			continue
		}
		normalized := formatE164(digits)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		phones = append(phones, normalized)
	}
	return phones
}

// NationalNumber отрезает +34 у нормализованного номера.
func NationalNumber(e164 string) string {
	digits := nonDigitRegexp.ReplaceAllString(e164, "")
	if len(digits) == 11 && digits[:2] == spainCallingCode {
		return digits[2:]
	}
	return digits
}

func isSpanishMobile(digits string) bool {
	return len(digits) == 9 && (digits[0] == '6' || digits[0] == '7')
}

func formatE164(national string) string {
	num, err := phonenumbers.Parse(national, spainRegion)
	if err != nil {
		return "+" + spainCallingCode + national
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
