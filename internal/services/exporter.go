package services

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/entities"
	apperrors "bank-phone-extractor/pkg/errors"
	"bank-phone-extractor/pkg/utils"
)

const (
	ExportSheetName   = "Extracted Phone Numbers"
	exportMaxColWidth = 50
)

var exportHeaders = []string{"Line Number", "Original Text", "Phone Numbers"}

type ExporterServiceInterface interface {
	Export(path string, results []entities.ExtractionResult) error
	ReadExport(path string) ([]string, error)
}

type ExporterService struct {
	logger *zap.Logger
}

func NewExporterService(logger *zap.Logger) *ExporterService {
	return &ExporterService{logger: logger}
}

// Export пишет .xlsx с таблицей результатов; любой другой путь получает по номеру на строку.
func (s *ExporterService) Export(path string, results []entities.ExtractionResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("не удалось создать папку для экспорта: %w", err)
	}

	var err error
	if isExcelPath(path) {
		err = writeExcel(path, results)
	} else {
		err = writePlain(path, results)
	}
	if err != nil {
		return err
	}

	s.logger.Info("Результаты экспортированы",
		zap.String("path", path),
		zap.Int("rows", len(results)),
		zap.Int("phones", entities.PhoneTotal(results)),
	)
	return nil
}

func writeExcel(path string, results []entities.ExtractionResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	widths := make([]int, len(exportHeaders))
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ExportSheetName, cell, h); err != nil {
			return err
		}
		widths[i] = len(h)
	}
	if err := f.SetCellStyle(ExportSheetName, "A1", "C1", bold); err != nil {
		return err
	}

	for i, r := range results {
		values := []interface{}{r.LineNumber, r.Text, strings.Join(r.PhoneNumbers, ", ")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(ExportSheetName, cell, v); err != nil {
				return err
			}
			widths[col] = max(widths[col], len([]rune(fmt.Sprint(v))))
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ExportSheetName, col, col, float64(min(w+2, exportMaxColWidth))); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func writePlain(path string, results []entities.ExtractionResult) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for _, r := range results {
		for _, phone := range r.PhoneNumbers {
			if _, err := w.WriteString(phone + "\n"); err != nil {
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return out.Close()
}

// ReadExport читает экспорт обратно и возвращает набор номеров в нормализованном виде.
func (s *ExporterService) ReadExport(path string) ([]string, error) {
	var cells []string
	if isExcelPath(path) {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", apperrors.ErrFileOpen, filepath.Base(path), err)
		}
		defer f.Close()

		rows, err := f.GetRows(ExportSheetName)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrNoWorksheet, err)
		}
		for i, row := range rows {
			if i == 0 || len(row) < len(exportHeaders) {
				continue
			}
			cells = append(cells, strings.Split(row[2], ",")...)
		}
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", apperrors.ErrFileOpen, filepath.Base(path), err)
		}
		content, _, err := DecodeText(raw)
		if err != nil {
			return nil, err
		}
		cells = SplitLines(content)
	}

	seen := make(map[string]struct{}, len(cells))
	var phones []string
	for _, c := range cells {
		phone, ok := utils.NormalizeSpanishMobile(c)
		if !ok {
			continue
		}
		if _, dup := seen[phone]; dup {
			continue
		}
		seen[phone] = struct{}{}
		phones = append(phones, phone)
	}
	return phones, nil
}

func isExcelPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xlsm"
}
