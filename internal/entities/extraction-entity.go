package entities

// Row — одна строка входного файла.
type Row struct {
	Number int
	Fields []string
	// Text — ячейки через табуляцию
	Text string
}

type ExtractionResult struct {
	LineNumber   int      `json:"line_number"`
	Text         string   `json:"text"`
	PhoneNumbers []string `json:"phone_numbers"`
	PhoneCount   int      `json:"phone_count"`
	IBANs        []string `json:"ibans,omitempty"`
	Bank         *Bank    `json:"bank,omitempty"`
	// Valid — все IBAN строки прошли проверку контрольной суммы.
	Valid bool `json:"valid"`
}

type LoadReport struct {
	Format   string `json:"format"`
	Encoding string `json:"encoding"`
	Rows     int    `json:"rows"`
	Skipped  int    `json:"skipped"`
	Blank    int    `json:"blank"`
}

type FileStats struct {
	SizeBytes            int64   `json:"file_size_bytes"`
	SizeMB               float64 `json:"file_size_mb"`
	EstimatedLines       int     `json:"estimated_lines"`
	IsLarge              bool    `json:"is_large_file"`
	RecommendedChunkSize int     `json:"recommended_chunk_size"`
}

// PhoneTotal — сколько номеров во всех результатах.
func PhoneTotal(results []ExtractionResult) int {
	total := 0
	for _, r := range results {
		total += len(r.PhoneNumbers)
	}
	return total
}
