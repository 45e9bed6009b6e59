package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"bank-phone-extractor/config"
	apperrors "bank-phone-extractor/pkg/errors"
)

// ValidateFile проверяет расширение, размер и MIME-тип файла.
// contextName - ключ из config.UploadContexts (например, "source_file")
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string) error {
	// 1. Получаем правила из конфига
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("внутренняя ошибка: неизвестный контекст загрузки '%s'", contextName)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == ".xls" {
		return apperrors.ErrLegacyExcel
	}
	if len(rules.AllowedExtensions) > 0 && !slices.Contains(rules.AllowedExtensions, ext) {
		return apperrors.NewInvalidInputError("недопустимое расширение файла: %q", ext)
	}

	// 2. Проверка размера (если ограничение > 0)
	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if fileHeader.Size > maxSizeBytes {
			return apperrors.NewInvalidInputError("размер файла (%.2f MB) превышает лимит в %d MB", float64(fileHeader.Size)/1024/1024, rules.MaxSizeMB)
		}
	}

	// 3. Проверка содержимого (Magic Numbers)
	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла: %w", err)
	}

	// Важно: Возвращаем курсор чтения в начало!
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("ошибка обработки файла: %w", err)
	}

	// 4. Сверка с разрешенными типами
	if !isAllowed(detected, rules.AllowedMimeTypes, ext) {
		return apperrors.NewInvalidInputError("недопустимый формат файла: %s", detected.String())
	}

	return nil
}

// isAllowed идёт вверх по иерархии типов: text/csv -> text/plain и т.д.
// Большие xlsx иногда распознаются только как zip, тогда доверяем расширению.
func isAllowed(detected *mimetype.MIME, allowed []string, ext string) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
		if m.Is("application/zip") && (ext == ".xlsx" || ext == ".xlsm") {
			return true
		}
	}
	return false
}
