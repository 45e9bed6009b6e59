package repositories

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "bank-phone-extractor/pkg/errors"
)

func TestNewBankRepository_Embedded(t *testing.T) {
	repo, err := NewBankRepository("", zap.NewNop())
	require.NoError(t, err)

	assert.Greater(t, repo.Len(), 20)
	assert.Zero(t, repo.Skipped())

	santander, err := repo.FindByPrefix("ES0049")
	require.NoError(t, err)
	assert.Equal(t, "BANCO SANTANDER, S.A.", santander.Name)
	assert.Equal(t, "0049", santander.EntityCode)
	assert.Equal(t, "ES0049", santander.IBANPrefix)
	assert.Contains(t, santander.Address, "Santander")

	// префикс в любом виде
	assert.True(t, repo.Contains("ES91 2100"))
	assert.True(t, repo.Contains("0182"))
	assert.Equal(t, "2100", repo.EntityCode("ES91 2100 0418 4502 0005 1332"))
	assert.Equal(t, "", repo.EntityCode("ES9999"))

	_, err = repo.FindByPrefix("ES9999")
	assert.ErrorIs(t, err, apperrors.ErrBankNotFound)
}

func TestBankRepository_Search(t *testing.T) {
	repo, err := NewBankRepository("", zap.NewNop())
	require.NoError(t, err)

	assert.Nil(t, repo.Search(""))
	assert.Nil(t, repo.Search(" b "), "меньше двух символов")

	found := repo.Search("  SANTANDER ")
	require.Len(t, found, 1)
	assert.Equal(t, "ES0049", found[0].IBANPrefix)

	for _, b := range repo.Search("banco") {
		assert.Contains(t, strings.ToLower(b.Name), "banco")
	}
	assert.Empty(t, repo.Search("inexistente"))
}

func TestBankRepository_SearchLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("CÓDIGO EUROPEO,NOMBRE,DIRECCIÓN\n")
	for i := 0; i < 150; i++ {
		sb.WriteString("ES")
		sb.WriteString(strings.Repeat("0", 4-len(itoa(i))) + itoa(i))
		sb.WriteString(",BANCO PRUEBA,Madrid\n")
	}
	repo, err := LoadBanks(strings.NewReader(sb.String()), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 150, repo.Len())
	assert.Len(t, repo.Search("prueba"), 100)
}

func TestBankRepository_MajorAndAllKeepOrder(t *testing.T) {
	repo, err := NewBankRepository("", zap.NewNop())
	require.NoError(t, err)

	major := repo.Major()
	require.NotEmpty(t, major)
	assert.Equal(t, "ES0182", major[0].IBANPrefix)
	assert.Equal(t, "BBVA (Banco Bilbao Vizcaya Argentaria)", major[0].DisplayName)

	all := repo.All()
	assert.Equal(t, "ES0049", all[0].IBANPrefix)
	all[0].Name = "cambiado"
	again := repo.All()
	assert.Equal(t, "BANCO SANTANDER, S.A.", again[0].Name, "All отдаёт копию")
}

func TestLoadBanks_SkipsBadRowsAndSemicolons(t *testing.T) {
	data := "\uFEFFCÓDIGO EUROPEO;NOMBRE;DIRECCIÓN;LEI\n" +
		"ES0049;BANCO SANTANDER;Santander;5493006QMFDDMYWIAM13\n" +
		";SIN CODIGO;Madrid;\n" +
		"ES0182;BBVA \"roto;Bilbao;\n" +
		"ES2100;CAIXABANK;Valencia;\n"

	repo, err := LoadBanks(strings.NewReader(data), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.Len())
	assert.Equal(t, 2, repo.Skipped())
	bank, err := repo.FindByPrefix("ES0049")
	require.NoError(t, err)
	assert.Equal(t, "5493006QMFDDMYWIAM13", bank.LEI)
	assert.True(t, repo.Contains("ES2100"))
}

func TestLoadBanks_MissingColumns(t *testing.T) {
	_, err := LoadBanks(strings.NewReader("CODE,NAME\nES0049,X\n"), zap.NewNop())
	assert.ErrorIs(t, err, apperrors.ErrRegistryLoad)
}

func TestNewBankRepository_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registro.csv")
	require.NoError(t, os.WriteFile(path, []byte("CÓDIGO EUROPEO,NOMBRE,DIRECCIÓN\nES0073,OPENBANK,Madrid\n"), 0o644))

	repo, err := NewBankRepository(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Len())

	_, err = NewBankRepository(filepath.Join(t.TempDir(), "nope.csv"), zap.NewNop())
	assert.ErrorIs(t, err, apperrors.ErrRegistryLoad)
}

func itoa(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return digits[i : i+1]
	}
	return itoa(i/10) + digits[i%10:i%10+1]
}
