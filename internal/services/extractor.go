package services

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"bank-phone-extractor/internal/entities"
	"bank-phone-extractor/internal/repositories"
	apperrors "bank-phone-extractor/pkg/errors"
	"bank-phone-extractor/pkg/iban"
	"bank-phone-extractor/pkg/utils"
)

const (
	DefaultChunkSize = 10000

	estimateSampleLines = 10000
	largeFileBytes      = 10 * 1024 * 1024
)

// ProgressFunc вызывается после каждого обработанного блока строк.
type ProgressFunc func(percent, processed, total int)

type ExtractorServiceInterface interface {
	ExtractPhoneNumbers(prefix, text string) []string
	ProcessText(prefix, text string) []entities.ExtractionResult
	ProcessRows(ctx context.Context, prefix string, rows []entities.Row, chunkSize int, progress ProgressFunc) ([]entities.ExtractionResult, error)
	ProcessFile(ctx context.Context, prefix, path string, opts ProcessOptions) ([]entities.ExtractionResult, *entities.LoadReport, error)
	EstimateFile(path string) (*entities.FileStats, error)
}

// ProcessOptions — параметры обработки файла.
type ProcessOptions struct {
	ChunkSize    int
	LoadProgress LoadProgressFunc
	Progress     ProgressFunc
}

type ExtractorService struct {
	bankRepo repositories.BankRepositoryInterface
	loader   FileLoaderInterface
	logger   *zap.Logger
}

func NewExtractorService(
	bankRepo repositories.BankRepositoryInterface,
	loader FileLoaderInterface,
	logger *zap.Logger,
) *ExtractorService {
	return &ExtractorService{
		bankRepo: bankRepo,
		loader:   loader,
		logger:   logger,
	}
}

// ResolveBank проверяет префикс банка. Пустой префикс означает "любой банк".
func (s *ExtractorService) ResolveBank(prefix string) (*entities.Bank, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, nil
	}
	bank, err := s.bankRepo.FindByPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, prefix)
	}
	return bank, nil
}

// ExtractPhoneNumbers возвращает телефоны строки, если в ней есть IBAN выбранного банка.
// Для неизвестного банка результат всегда пустой.
func (s *ExtractorService) ExtractPhoneNumbers(prefix, text string) []string {
	result, ok := s.extractLine(prefix, text)
	if !ok {
		return nil
	}
	return result.PhoneNumbers
}

// extractLine — общая часть для одной строки. Цифры IBAN маскируются до поиска
// телефонов, поэтому номер счёта никогда не превращается в телефон.
func (s *ExtractorService) extractLine(prefix, text string) (entities.ExtractionResult, bool) {
	var entityCode string
	if strings.TrimSpace(prefix) != "" {
		entityCode = s.bankRepo.EntityCode(prefix)
		if entityCode == "" {
			return entities.ExtractionResult{}, false
		}
	}

	ibans := iban.FindAll(text)
	if len(ibans) == 0 {
		return entities.ExtractionResult{}, false
	}

	matched := ""
	if entityCode == "" {
		matched = ibans[0]
	} else {
		for _, candidate := range ibans {
			if iban.EntityCode(candidate) == entityCode {
				matched = candidate
				break
			}
		}
	}
	if matched == "" {
		return entities.ExtractionResult{}, false
	}

	phones := utils.ExtractSpanishMobiles(iban.Mask(text))
	if len(phones) == 0 {
		return entities.ExtractionResult{}, false
	}

	valid := true
	for _, candidate := range ibans {
		if !iban.ValidChecksum(candidate) {
			valid = false
			break
		}
	}

	result := entities.ExtractionResult{
		Text:         text,
		PhoneNumbers: phones,
		PhoneCount:   len(phones),
		IBANs:        ibans,
		Valid:        valid,
	}
	if bank, err := s.bankRepo.FindByPrefix(matched); err == nil {
		result.Bank = bank
	}
	return result, true
}

// ProcessText делит текст на строки (нумерация с 1) и пропускает пустые.
func (s *ExtractorService) ProcessText(prefix, text string) []entities.ExtractionResult {
	var results []entities.ExtractionResult
	for i, line := range SplitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if result, ok := s.extractLine(prefix, line); ok {
			result.LineNumber = i + 1
			results = append(results, result)
		}
	}
	return results
}

// ProcessRows обрабатывает строки блоками по chunkSize. Отмена проверяется на каждой строке.
func (s *ExtractorService) ProcessRows(
	ctx context.Context,
	prefix string,
	rows []entities.Row,
	chunkSize int,
	progress ProgressFunc,
) ([]entities.ExtractionResult, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	total := len(rows)

	var results []entities.ExtractionResult
	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		for _, row := range rows[start:end] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			text := strings.TrimSpace(row.Text)
			if text == "" {
				continue
			}
			if result, ok := s.extractLine(prefix, text); ok {
				result.LineNumber = row.Number
				results = append(results, result)
			}
		}
		if progress != nil {
			progress(end*100/total, end, total)
		}
	}
	return results, nil
}

func (s *ExtractorService) ProcessFile(
	ctx context.Context,
	prefix, path string,
	opts ProcessOptions,
) ([]entities.ExtractionResult, *entities.LoadReport, error) {
	if _, err := s.ResolveBank(prefix); err != nil {
		return nil, nil, err
	}

	rows, report, err := s.loader.Load(ctx, path, opts.LoadProgress)
	if err != nil {
		return nil, nil, err
	}

	results, err := s.ProcessRows(ctx, prefix, rows, opts.ChunkSize, opts.Progress)
	if err != nil {
		return nil, report, err
	}

	s.logger.Info("Файл обработан",
		zap.String("file", filepath.Base(path)),
		zap.String("bank", prefix),
		zap.Int("rows", report.Rows),
		zap.Int("results", len(results)),
		zap.Int("phones", entities.PhoneTotal(results)),
	)
	return results, report, nil
}

// EstimateFile оценивает размер файла по первым 10000 строкам.
func (s *ExtractorService) EstimateFile(path string) (*entities.FileStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", apperrors.ErrFileOpen, filepath.Base(path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", apperrors.ErrFileOpen, filepath.Base(path), err)
	}
	size := info.Size()

	reader := bufio.NewReader(f)
	lines := 0
	var sampled int64
	for lines < estimateSampleLines {
		chunk, err := reader.ReadString('\n')
		if len(chunk) > 0 {
			lines++
			sampled += int64(len(chunk))
		}
		if err != nil {
			break
		}
	}

	estimated := lines
	if lines == estimateSampleLines && sampled > 0 {
		estimated = int(float64(size) / float64(sampled) * float64(lines))
	}

	return &entities.FileStats{
		SizeBytes:            size,
		SizeMB:               float64(size) / (1024 * 1024),
		EstimatedLines:       estimated,
		IsLarge:              size > largeFileBytes,
		RecommendedChunkSize: RecommendedChunkSize(estimated),
	}, nil
}

// RecommendedChunkSize — lines/100, но в пределах 1000..5000.
func RecommendedChunkSize(lines int) int {
	return min(5000, max(1000, lines/100))
}
