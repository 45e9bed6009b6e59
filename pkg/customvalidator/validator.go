// Файл: pkg/customvalidator/validators.go

package customvalidator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"bank-phone-extractor/pkg/iban"
	"bank-phone-extractor/pkg/utils"
)

var ibanPrefixRegexp = regexp.MustCompile(`^ES\d{4}$`)

// RegisterCustomValidations регистрирует наши правила в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("iban_prefix", isIBANPrefix); err != nil {
		return err
	}
	if err := v.RegisterValidation("es_iban", isSpanishIBAN); err != nil {
		return err
	}
	if err := v.RegisterValidation("es_mobile", isSpanishMobile); err != nil {
		return err
	}
	return nil
}

// isIBANPrefix принимает всё, что сводится к виду реестра ES0000: "ES0049", "ES91 0049", "0049".
func isIBANPrefix(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return false
	}
	return ibanPrefixRegexp.MatchString(iban.NormalizePrefix(value))
}

func isSpanishIBAN(fl validator.FieldLevel) bool {
	return iban.Valid(fl.Field().String())
}

func isSpanishMobile(fl validator.FieldLevel) bool {
	_, ok := utils.NormalizeSpanishMobile(fl.Field().String())
	return ok
}
