// Файл: pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Host string
	Port string
}

// Addr — адрес для e.Start. По умолчанию слушаем только loopback.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type StorageConfig struct {
	UploadsDir string
	ExportsDir string
}

type RegistryConfig struct {
	// Path — пустая строка означает встроенный реестр банков.
	Path string
}

type ExtractionConfig struct {
	ChunkSize           int
	AsyncThresholdBytes int
	CancelWait          time.Duration
	// JobTTL - сколько хранить завершённую задачу в памяти.
	JobTTL time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Registry   RegistryConfig
	Extraction ExtractionConfig
	Log        LogConfig
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "127.0.0.1"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Storage: StorageConfig{
			UploadsDir: getEnv("UPLOADS_DIR", "uploads"),
			ExportsDir: getEnv("EXPORTS_DIR", "exports"),
		},
		Registry: RegistryConfig{
			Path: getEnv("REGISTRY_PATH", ""),
		},
		Extraction: ExtractionConfig{
			ChunkSize:           getEnvInt("CHUNK_SIZE", 10000),
			AsyncThresholdBytes: getEnvInt("ASYNC_THRESHOLD_BYTES", 50000),
			CancelWait:          getEnvDuration("CANCEL_WAIT", 5*time.Second),
			JobTTL:              getEnvDuration("JOB_TTL", time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Предупреждение: некорректное значение %s=%q, используется %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Предупреждение: некорректное значение %s=%q, используется %s", key, value, fallback)
		return fallback
	}
	return d
}
