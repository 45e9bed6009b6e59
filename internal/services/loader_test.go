package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	apperrors "bank-phone-extractor/pkg/errors"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		head []byte
		want string
	}{
		{"a.xlsx", nil, FormatXLSX},
		{"a.XLSM", nil, FormatXLSX},
		{"a.csv", nil, FormatCSV},
		{"a.txt", []byte("hola"), FormatText},
		{"sin_extension", []byte{0x50, 0x4B, 0x03, 0x04}, FormatXLSX},
	}
	for _, tc := range cases {
		got, err := DetectFormat(tc.path, tc.head)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}

	_, err := DetectFormat("viejo.xls", nil)
	assert.ErrorIs(t, err, apperrors.ErrLegacyExcel)
	_, err = DetectFormat("renombrado.txt", []byte{0xD0, 0xCF, 0x11, 0xE0})
	assert.ErrorIs(t, err, apperrors.ErrLegacyExcel)
}

func TestLoad_TextWithBOM(t *testing.T) {
	path := writeFile(t, "datos.txt", "\xEF\xBB\xBFprimera\r\n\r\n  segunda  \nterceira\n")

	var progress []int
	rows, report, err := NewFileLoader(zap.NewNop()).Load(context.Background(), path, func(p int) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "primera", rows[0].Text)
	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, "segunda", rows[1].Text)
	assert.Equal(t, 3, rows[1].Number)
	assert.Equal(t, 4, rows[2].Number)

	assert.Equal(t, FormatText, report.Format)
	assert.Equal(t, EncodingUTF8, report.Encoding)
	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 1, report.Blank)

	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
	assert.IsIncreasing(t, progress)
}

func TestLoad_Latin1Fallback(t *testing.T) {
	// "Muñoz" в ISO-8859-1: ñ = 0xF1
	path := writeFile(t, "latin.txt", "Mu\xF1oz ES48 0049 0001 5123 4567 8901 612345678\n")

	rows, report, err := NewFileLoader(zap.NewNop()).Load(context.Background(), path, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, EncodingLatin1, report.Encoding)
	assert.Equal(t, "Muñoz ES48 0049 0001 5123 4567 8901 612345678", rows[0].Text)
}

func TestLoad_CSVSkipsMalformed(t *testing.T) {
	path := writeFile(t, "clientes.csv",
		"nombre,iban\n"+
			"Ana,ES48 0049 0001 5123 4567 8901,612345678\n"+
			"mal\"formada,x\n"+
			",,\n"+
			"\"Luis, hijo\",ES91 2100 0418 4502 0005 1332\n")

	rows, report, err := NewFileLoader(zap.NewNop()).Load(context.Background(), path, nil)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Ana", "ES48 0049 0001 5123 4567 8901", "612345678"}, rows[1].Fields)
	assert.Equal(t, "Ana\tES48 0049 0001 5123 4567 8901\t612345678", rows[1].Text)
	assert.Equal(t, 5, rows[2].Number)
	assert.Equal(t, "Luis, hijo", rows[2].Fields[0])

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Blank)
}

func TestLoad_XLSXActiveSheet(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Clientes")
	require.NoError(t, err)

	require.NoError(t, f.SetSheetRow("Clientes", "A1", &[]interface{}{"Ana", "ES48 0049 0001 5123 4567 8901", 612345678}))
	require.NoError(t, f.SetCellValue("Clientes", "B3", "Bea"))
	require.NoError(t, f.SetCellValue("Clientes", "D3", "ES91 2100 0418 4502 0005 1332"))
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "no debe leerse"))

	idx, err := f.GetSheetIndex("Clientes")
	require.NoError(t, err)
	f.SetActiveSheet(idx)

	path := filepath.Join(t.TempDir(), "libro.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	var last int
	rows, report, err := NewFileLoader(zap.NewNop()).Load(context.Background(), path, func(p int) { last = p })
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, "Ana\tES48 0049 0001 5123 4567 8901\t612345678", rows[0].Text)
	assert.Equal(t, 3, rows[1].Number)
	assert.Equal(t, []string{"Bea", "ES91 2100 0418 4502 0005 1332"}, rows[1].Fields)

	assert.Equal(t, FormatXLSX, report.Format)
	assert.Equal(t, 1, report.Blank)
	assert.Equal(t, 100, last)
}

func TestLoad_Errors(t *testing.T) {
	loader := NewFileLoader(zap.NewNop())

	_, _, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), nil)
	assert.ErrorIs(t, err, apperrors.ErrFileOpen)

	xls := writeFile(t, "viejo.xls", "\xD0\xCF\x11\xE0\xA1\xB1\x1A\xE1")
	_, _, err = loader.Load(context.Background(), xls, nil)
	assert.ErrorIs(t, err, apperrors.ErrLegacyExcel)

	broken := writeFile(t, "roto.xlsx", "esto no es un zip")
	_, _, err = loader.Load(context.Background(), broken, nil)
	assert.ErrorIs(t, err, apperrors.ErrFileOpen)
}

func TestLoad_Cancelled(t *testing.T) {
	path := writeFile(t, "datos.txt", "uno\ndos\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewFileLoader(zap.NewNop()).Load(ctx, path, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b", "", "c"}, SplitLines("a\r\nb\r\rc\n"))
}
