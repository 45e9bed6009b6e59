package config

type UploadConfig struct {
	AllowedMimeTypes  []string
	AllowedExtensions []string
	MaxSizeMB         int64
	PathPrefix        string
}

var UploadContexts = map[string]UploadConfig{
	// Исходные файлы для извлечения телефонов: CSV, XLSX, текст
	"source_file": {
		AllowedMimeTypes: []string{
			"text/plain",
			"text/csv",
			"text/tab-separated-values",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
		AllowedExtensions: []string{".csv", ".txt", ".tsv", ".xlsx", ".xlsm"},
		MaxSizeMB:         200,
		PathPrefix:        "sources",
	},
}
