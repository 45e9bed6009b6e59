package customvalidator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Bank  string `validate:"required,iban_prefix"`
	IBAN  string `validate:"omitempty,es_iban"`
	Phone string `validate:"omitempty,es_mobile"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestRegisterCustomValidations(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sample{Bank: "ES0049"}))
	assert.NoError(t, v.Struct(sample{Bank: "ES91 2100"}))
	assert.NoError(t, v.Struct(sample{Bank: "0182", IBAN: "ES91 2100 0418 4502 0005 1332", Phone: "+34 612 345 678"}))

	assert.Error(t, v.Struct(sample{Bank: ""}))
	assert.Error(t, v.Struct(sample{Bank: "BBVA"}))
	assert.Error(t, v.Struct(sample{Bank: "ES0049", IBAN: "ES92 2100 0418 4502 0005 1332"}))
	assert.Error(t, v.Struct(sample{Bank: "ES0049", Phone: "912345678"}))
}

func TestIBANPrefixErrorTag(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(sample{Bank: "XX12"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "iban_prefix", verrs[0].Tag())
	assert.Equal(t, "Bank", verrs[0].Field())
}
