package repositories

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"bank-phone-extractor/internal/entities"
	apperrors "bank-phone-extractor/pkg/errors"
	"bank-phone-extractor/pkg/iban"
)

//go:embed data/lista-psri-es.csv
var embeddedRegistry []byte

const (
	colCode       = "CÓDIGO EUROPEO"
	colName       = "NOMBRE"
	colAddress    = "DIRECCIÓN"
	colLEI        = "LEI"
	colOperator   = "OPERADOR"
	colProvider   = "PROVEEDOR"
	colSupervisor = "CÓDIGO DE SUPERVISOR"

	searchMinLength  = 2
	searchMaxResults = 100
)

// Короткий список для быстрого выбора; показываем только те, что есть в реестре.
var majorBanks = []entities.MajorBank{
	{IBANPrefix: "ES0182", DisplayName: "BBVA (Banco Bilbao Vizcaya Argentaria)"},
	{IBANPrefix: "ES0049", DisplayName: "Santander (Banco Santander)"},
	{IBANPrefix: "ES2100", DisplayName: "Caixabank"},
	{IBANPrefix: "ES0081", DisplayName: "Sabadell (Banco de Sabadell)"},
	{IBANPrefix: "ES0128", DisplayName: "Bankinter"},
	{IBANPrefix: "ES0003", DisplayName: "Banco de Depósitos"},
	{IBANPrefix: "ES0061", DisplayName: "Banca March"},
	{IBANPrefix: "ES0188", DisplayName: "Banco Alcalá"},
	{IBANPrefix: "ES0225", DisplayName: "Banco Cetelem"},
	{IBANPrefix: "ES0198", DisplayName: "Banco Cooperativo Español"},
}

type BankRepositoryInterface interface {
	FindByPrefix(prefix string) (*entities.Bank, error)
	EntityCode(prefix string) string
	Contains(prefix string) bool
	Len() int
	All() []entities.Bank
	Search(term string) []entities.Bank
	Major() []entities.MajorBank
}

// BankRepository — реестр в памяти, только чтение после загрузки.
type BankRepository struct {
	banks   []entities.Bank
	byCode  map[string]int
	skipped int
	logger  *zap.Logger
}

// NewBankRepository загружает реестр из файла, а при пустом path — встроенную копию.
func NewBankRepository(path string, logger *zap.Logger) (*BankRepository, error) {
	var (
		data   []byte
		source = "встроенный реестр"
	)
	if strings.TrimSpace(path) == "" {
		data = embeddedRegistry
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrRegistryLoad, path, err)
		}
		data = raw
		source = path
	}

	repo, err := LoadBanks(bytes.NewReader(data), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Реестр банков загружен",
		zap.String("source", source),
		zap.Int("banks", repo.Len()),
		zap.Int("skipped", repo.skipped),
	)
	return repo, nil
}

// LoadBanks читает CSV реестра (UTF-8, BOM допускается, разделитель ',' или ';').
func LoadBanks(r io.Reader, logger *zap.Logger) (*BankRepository, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comma = sniffDelimiter(br)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: не удалось прочитать заголовок: %w", apperrors.ErrRegistryLoad, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colCode, colName, colAddress} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: нет колонки %q", apperrors.ErrRegistryLoad, required)
		}
	}

	repo := &BankRepository{byCode: make(map[string]int), logger: logger}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				repo.skipped++
				logger.Debug("Пропущена битая строка реестра", zap.Int("line", line), zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("%w: %w", apperrors.ErrRegistryLoad, err)
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		code := strings.ToUpper(get(colCode))
		if code == "" {
			repo.skipped++
			continue
		}
		entityCode := code
		if len(code) >= 6 {
			entityCode = code[2:]
		}

		bank := entities.Bank{
			IBANPrefix:     code,
			Name:           get(colName),
			EntityCode:     entityCode,
			Address:        get(colAddress),
			LEI:            get(colLEI),
			Operator:       get(colOperator),
			Provider:       get(colProvider),
			SupervisorCode: get(colSupervisor),
		}
		// Повтор кода — последняя строка выигрывает, как при заполнении словаря.
		if i, ok := repo.byCode[code]; ok {
			repo.banks[i] = bank
			continue
		}
		repo.byCode[code] = len(repo.banks)
		repo.banks = append(repo.banks, bank)
	}

	return repo, nil
}

func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	firstLine, _, _ := bytes.Cut(peek, []byte("\n"))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		return ';'
	}
	return ','
}

func (r *BankRepository) FindByPrefix(prefix string) (*entities.Bank, error) {
	i, ok := r.byCode[iban.NormalizePrefix(prefix)]
	if !ok {
		return nil, apperrors.ErrBankNotFound
	}
	bank := r.banks[i]
	return &bank, nil
}

// EntityCode возвращает 4-значный код банка или "" для неизвестного префикса.
func (r *BankRepository) EntityCode(prefix string) string {
	bank, err := r.FindByPrefix(prefix)
	if err != nil {
		return ""
	}
	return bank.EntityCode
}

func (r *BankRepository) Contains(prefix string) bool {
	_, ok := r.byCode[iban.NormalizePrefix(prefix)]
	return ok
}

func (r *BankRepository) Len() int { return len(r.banks) }

// Skipped — сколько строк реестра отброшено при загрузке.
func (r *BankRepository) Skipped() int { return r.skipped }

// All — все банки в порядке файла.
func (r *BankRepository) All() []entities.Bank {
	out := make([]entities.Bank, len(r.banks))
	copy(out, r.banks)
	return out
}

// Search ищет по подстроке в названии без учёта регистра.
func (r *BankRepository) Search(term string) []entities.Bank {
	term = strings.ToLower(strings.TrimSpace(term))
	if len([]rune(term)) < searchMinLength {
		return nil
	}

	var matches []entities.Bank
	for _, bank := range r.banks {
		if strings.Contains(strings.ToLower(bank.Name), term) {
			matches = append(matches, bank)
			if len(matches) >= searchMaxResults {
				break
			}
		}
	}
	return matches
}

func (r *BankRepository) Major() []entities.MajorBank {
	available := make([]entities.MajorBank, 0, len(majorBanks))
	for _, mb := range majorBanks {
		if _, ok := r.byCode[mb.IBANPrefix]; ok {
			available = append(available, mb)
		}
	}
	return available
}
