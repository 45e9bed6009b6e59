package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	Delete(filePath string) error
	Path(filePath string) string
}

// LocalFileStorage хранит загруженные файлы на диске: basePath/prefix/YYYY/MM/DD/<дата>-<uuid>.<ext>.
type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию: %w", err)
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

// Save возвращает путь относительно basePath; расширение исходного файла сохраняется,
// по нему потом выбирается формат загрузки.
func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	uniqueFileName := fmt.Sprintf("%s-%s%s", time.Now().Format("2006-01-02"), uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, datePath)

	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join(prefix, datePath, uniqueFileName)), nil
}

// Path — полный путь на диске для пути, который вернул Save.
func (s *LocalFileStorage) Path(filePath string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(filePath))
}

// Delete удаляет файл; отсутствующий файл не считается ошибкой.
func (s *LocalFileStorage) Delete(filePath string) error {
	err := os.Remove(s.Path(filePath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
