package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/services"
	apperrors "bank-phone-extractor/pkg/errors"
)

const (
	ibanSantander = "ES48 0049 0001 5123 4567 8901"
	ibanCaixa     = "ES91 2100 0418 4502 0005 1332"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBanksCommands(t *testing.T) {
	out, err := run(t, "banks", "major")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ES0182"), out)

	out, err = run(t, "banks", "info", "ES91 0049")
	require.NoError(t, err)
	assert.Contains(t, out, "BANCO SANTANDER, S.A.")
	assert.Contains(t, out, "0049")

	out, err = run(t, "banks", "search", "santander")
	require.NoError(t, err)
	assert.Contains(t, out, "ES0049")

	out, err = run(t, "banks", "search", "zzzzzz-no-existe")
	require.NoError(t, err)
	assert.Contains(t, out, "Ничего не найдено")

	_, err = run(t, "banks", "info", "ES9999")
	assert.ErrorIs(t, err, apperrors.ErrBankNotFound)

	_, err = run(t, "banks", "search")
	assert.Error(t, err)
}

func TestExtractPrintsPhones(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.txt",
		"Ana "+ibanSantander+" 612 345 678\n"+
			"Bea "+ibanCaixa+" 622334455\n")
	second := writeFile(t, dir, "b.csv",
		"nombre,iban,telefono\n"+
			"Carla,"+ibanSantander+",+34 711 22 33 44\n")

	out, err := run(t, "extract", "--bank", "ES0049", "--workers", "2", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "a.txt [text, utf-8]: строк 2")
	assert.Contains(t, out, "b.csv [csv, utf-8]")
	assert.Contains(t, out, "номеров 2")
	assert.Contains(t, out, "+34612345678\n")
	assert.Contains(t, out, "+34711223344\n")
	assert.NotContains(t, out, "+34622334455")
}

func TestExtractWritesExport(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "clientes.txt",
		"Ana "+ibanSantander+" 612345678 y 655443322\n"+
			"Bea "+ibanCaixa+" 622334455\n")
	outPath := filepath.Join(dir, "res", "telefonos.xlsx")

	out, err := run(t, "extract", "-b", "ES0049", "-o", outPath, input)
	require.NoError(t, err)
	assert.Contains(t, out, "Результаты сохранены")

	phones, err := services.NewExporterService(zap.NewNop()).ReadExport(outPath)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"+34612345678", "+34655443322"}, phones)
}

func TestExtractErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "clientes.txt", "Ana "+ibanSantander+" 612345678\n")

	_, err := run(t, "extract", "--bank", "ES9999", input)
	assert.ErrorIs(t, err, apperrors.ErrBankNotFound)

	_, err = run(t, "extract", "--bank", "ES0049", filepath.Join(dir, "nope.txt"))
	assert.ErrorIs(t, err, apperrors.ErrFileOpen)

	_, err = run(t, "extract", "--bank", "ES0049", writeFile(t, dir, "viejo.xls", "x"))
	assert.ErrorIs(t, err, apperrors.ErrLegacyExcel)

	_, err = run(t, "extract")
	assert.Error(t, err)
}

func TestEstimate(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "clientes.txt", strings.Repeat("Ana "+ibanSantander+" 612345678\n", 20))

	out, err := run(t, "estimate", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Строк (оценка): 20")
	assert.Contains(t, out, "Большой файл: false")
	assert.Contains(t, out, "Рекомендуемый блок: 1000")
}

func TestLogSettingsFromEnv(t *testing.T) {
	dir := t.TempDir()

	infoLog := filepath.Join(dir, "info.log")
	t.Setenv("LOG_FILE", infoLog)
	t.Setenv("LOG_LEVEL", "info")
	_, err := run(t, "banks", "major")
	require.NoError(t, err)
	content, err := os.ReadFile(infoLog)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Реестр банков загружен")

	quietLog := filepath.Join(dir, "quiet.log")
	t.Setenv("LOG_FILE", quietLog)
	t.Setenv("LOG_LEVEL", "error")
	_, err = run(t, "banks", "major")
	require.NoError(t, err)
	content, err = os.ReadFile(quietLog)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "Реестр банков загружен")

	// --verbose перекрывает LOG_LEVEL.
	verboseLog := filepath.Join(dir, "verbose.log")
	t.Setenv("LOG_FILE", verboseLog)
	_, err = run(t, "-v", "banks", "major")
	require.NoError(t, err)
	content, err = os.ReadFile(verboseLog)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Реестр банков загружен")
}
