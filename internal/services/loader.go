package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"bank-phone-extractor/internal/entities"
	apperrors "bank-phone-extractor/pkg/errors"
)

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatText = "text"

	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadProgressFunc получает процент загрузки файла (0-100).
type LoadProgressFunc func(percent int)

type FileLoaderInterface interface {
	Load(ctx context.Context, path string, progress LoadProgressFunc) ([]entities.Row, *entities.LoadReport, error)
}

type FileLoader struct {
	logger *zap.Logger
}

func NewFileLoader(logger *zap.Logger) *FileLoader {
	return &FileLoader{logger: logger}
}

// DetectFormat определяет формат по расширению и сигнатуре файла.
func DetectFormat(path string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".xls" || bytes.HasPrefix(head, []byte{0xD0, 0xCF, 0x11, 0xE0}):
		return "", apperrors.ErrLegacyExcel
	case ext == ".xlsx" || ext == ".xlsm":
		return FormatXLSX, nil
	case ext == ".csv":
		return FormatCSV, nil
	case bytes.HasPrefix(head, []byte{0x50, 0x4B, 0x03, 0x04}):
		// zip без расширения .xlsx — пробуем как книгу Excel
		return FormatXLSX, nil
	}
	return FormatText, nil
}

func (l *FileLoader) Load(ctx context.Context, path string, progress LoadProgressFunc) ([]entities.Row, *entities.LoadReport, error) {
	head, err := readHead(path, 8)
	if err != nil {
		return nil, nil, fmt.Errorf("%w %s: %w", apperrors.ErrFileOpen, filepath.Base(path), err)
	}
	format, err := DetectFormat(path, head)
	if err != nil {
		return nil, nil, err
	}

	l.logger.Debug("Загрузка файла", zap.String("path", path), zap.String("format", format))

	var (
		rows   []entities.Row
		report *entities.LoadReport
	)
	switch format {
	case FormatXLSX:
		rows, report, err = l.loadXLSX(ctx, path, progress)
	default:
		rows, report, err = l.loadDelimited(ctx, path, format, progress)
	}
	if err != nil {
		return nil, nil, err
	}

	l.logger.Info("Файл загружен",
		zap.String("path", path),
		zap.String("format", report.Format),
		zap.String("encoding", report.Encoding),
		zap.Int("rows", report.Rows),
		zap.Int("skipped", report.Skipped),
	)
	return rows, report, nil
}

func (l *FileLoader) loadXLSX(ctx context.Context, path string, progress LoadProgressFunc) ([]entities.Row, *entities.LoadReport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w %s: %w", apperrors.ErrFileOpen, filepath.Base(path), err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, nil, apperrors.ErrNoWorksheet
		}
		sheet = list[0]
	}

	total := sheetRowCount(f, sheet)
	iter, err := f.Rows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%w %s: %w", apperrors.ErrFileOpen, filepath.Base(path), err)
	}
	defer iter.Close()

	report := &entities.LoadReport{Format: FormatXLSX, Encoding: EncodingUTF8}
	tracker := newProgressTracker(total, progress)
	var rows []entities.Row

	rowNum := 0
	for iter.Next() {
		rowNum++
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		tracker.step(rowNum)

		cols, err := iter.Columns()
		if err != nil {
			report.Skipped++
			l.logger.Debug("Строка Excel пропущена", zap.Int("row", rowNum), zap.Error(err))
			continue
		}

		fields := nonEmpty(cols)
		if len(fields) == 0 {
			report.Blank++
			continue
		}
		rows = append(rows, entities.Row{Number: rowNum, Fields: fields, Text: strings.Join(fields, "\t")})
	}
	if err := iter.Error(); err != nil {
		return nil, nil, fmt.Errorf("%w %s: %w", apperrors.ErrFileOpen, filepath.Base(path), err)
	}

	tracker.finish()
	report.Rows = len(rows)
	return rows, report, nil
}

// sheetRowCount берёт число строк из размерности листа; 0 если её нет.
func sheetRowCount(f *excelize.File, sheet string) int {
	dim, err := f.GetSheetDimension(sheet)
	if err != nil || dim == "" {
		return 0
	}
	last := dim
	if _, end, ok := strings.Cut(dim, ":"); ok {
		last = end
	}
	_, row, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return 0
	}
	return row
}

func (l *FileLoader) loadDelimited(ctx context.Context, path, format string, progress LoadProgressFunc) ([]entities.Row, *entities.LoadReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w %s: %w", apperrors.ErrFileOpen, filepath.Base(path), err)
	}
	content, encoding, err := DecodeText(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w %s: %w", apperrors.ErrFileOpen, filepath.Base(path), err)
	}

	report := &entities.LoadReport{Format: format, Encoding: encoding}
	var rows []entities.Row
	if format == FormatCSV {
		rows, err = l.parseCSV(ctx, content, report, progress)
	} else {
		rows, err = parseLines(ctx, content, report, progress)
	}
	if err != nil {
		return nil, nil, err
	}
	report.Rows = len(rows)
	return rows, report, nil
}

func (l *FileLoader) parseCSV(ctx context.Context, content string, report *entities.LoadReport, progress LoadProgressFunc) ([]entities.Row, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	tracker := newProgressTracker(len(content), progress)
	var rows []entities.Row
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		tracker.step(int(reader.InputOffset()))

		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				report.Skipped++
				l.logger.Debug("Битая строка CSV пропущена", zap.Int("line", parseErr.StartLine), zap.Error(err))
				continue
			}
			return nil, err
		}

		line, _ := reader.FieldPos(0)
		fields := nonEmpty(record)
		if len(fields) == 0 {
			report.Blank++
			continue
		}
		rows = append(rows, entities.Row{Number: line, Fields: fields, Text: strings.Join(fields, "\t")})
	}
	tracker.finish()
	return rows, nil
}

func parseLines(ctx context.Context, content string, report *entities.LoadReport, progress LoadProgressFunc) ([]entities.Row, error) {
	lines := SplitLines(content)
	tracker := newProgressTracker(len(lines), progress)

	var rows []entities.Row
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tracker.step(i + 1)

		line = strings.TrimSpace(line)
		if line == "" {
			report.Blank++
			continue
		}
		rows = append(rows, entities.Row{Number: i + 1, Fields: []string{line}, Text: line})
	}
	tracker.finish()
	return rows, nil
}

// DecodeText убирает BOM и декодирует содержимое: UTF-8, а если он невалиден — Latin-1.
func DecodeText(raw []byte) (string, string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), EncodingUTF8, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", err
	}
	return string(decoded), EncodingLatin1, nil
}

// SplitLines режет текст по \n, \r\n и \r; хвостовой перевод строки не даёт пустой строки.
func SplitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}

func nonEmpty(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// progressTracker зовёт callback примерно на каждый процент, не чаще.
type progressTracker struct {
	total    int
	last     int
	callback LoadProgressFunc
}

func newProgressTracker(total int, callback LoadProgressFunc) *progressTracker {
	return &progressTracker{total: total, last: -1, callback: callback}
}

func (p *progressTracker) step(done int) {
	if p.callback == nil || p.total <= 0 {
		return
	}
	percent := min(done*100/p.total, 100)
	if percent > p.last {
		p.last = percent
		p.callback(percent)
	}
}

func (p *progressTracker) finish() {
	if p.callback != nil && p.last < 100 {
		p.last = 100
		p.callback(100)
	}
}
