package iban

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const caixaIBAN = "ES9121000418450200051332"

func TestNormalize_SpacingDoesNotMatter(t *testing.T) {
	variants := []string{
		"ES9121000418450200051332",
		"ES91 2100 0418 4502 0005 1332",
		"  ES91  2100\t0418 4502\n0005 1332  ",
		"es91-2100-0418-4502-0005-1332",
		"ES91 2100 0418 4502 0005 1332",
		"E S 9 1 2 1 0 0 0 4 1 8 4 5 0 2 0 0 0 5 1 3 3 2",
	}
	for _, v := range variants {
		assert.Equal(t, caixaIBAN, Normalize(v), "вход %q", v)
	}
}

func TestValidFormatAndChecksum(t *testing.T) {
	assert.True(t, ValidFormat("ES91 2100 0418 4502 0005 1332"))
	assert.True(t, ValidChecksum("ES91 2100 0418 4502 0005 1332"))
	assert.True(t, Valid("ES4800490001512345678901"))

	assert.False(t, ValidFormat("ES91 2100 0418"), "слишком короткий")
	assert.False(t, ValidFormat("FR7630006000011234567890189"), "не Испания")
	assert.True(t, ValidFormat("ES9221000418450200051332"))
	assert.False(t, ValidChecksum("ES9221000418450200051332"), "контрольные цифры испорчены")
	assert.False(t, ValidChecksum("ES"))
}

func TestEntityCode(t *testing.T) {
	assert.Equal(t, "2100", EntityCode("ES91 2100 0418 4502 0005 1332"))
	assert.Equal(t, "0049", EntityCode("es48 0049 0001"))
	assert.Equal(t, "", EntityCode("ES91 21"))
	assert.Equal(t, "", EntityCode("DE89370400440532013000"))
}

func TestNormalizePrefix(t *testing.T) {
	cases := map[string]string{
		"ES0049":                        "ES0049",
		"ES91 0049":                     "ES0049",
		"es91 2100 0418":                "ES2100",
		"ES91 2100 0418 4502 0005 1332": "ES2100",
		"0182":                          "ES0182",
		" 0 1 8 2 ":                     "ES0182",
		"ES12345":                       "ES345",
		"XX":                            "XX",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePrefix(in), "вход %q", in)
	}
}

func TestFindAllAndMask(t *testing.T) {
	text := "Cliente 1;IBAN ES91 2100 0418 4502 0005 1332;tel 612 345 678;alt es48-0049-0001-5123-4567-8901"

	found := FindAll(text)
	assert.Equal(t, []string{caixaIBAN, "ES4800490001512345678901"}, found)

	masked := Mask(text)
	assert.NotContains(t, masked, "2100")
	assert.NotContains(t, masked, "0049")
	assert.Contains(t, masked, "612 345 678")

	assert.Nil(t, FindAll("sin cuenta bancaria"))
	assert.Nil(t, FindAll("ES91 2100 0418 4502 0005 13325"), "лишняя цифра в конце")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "ES91 2100 0418 4502 0005 1332", Format(caixaIBAN))
}
