package dto

import "bank-phone-extractor/internal/entities"

// ExtractTextDTO: вставленный текст для поиска телефонов.
type ExtractTextDTO struct {
	// Bank — префикс банка ("ES0049", "ES91 0049"); пусто — любой банк.
	Bank string `json:"bank" validate:"omitempty,iban_prefix"`
	Text string `json:"text" validate:"required"`
}

// ExtractResultDTO: синхронный ответ на ExtractTextDTO.
type ExtractResultDTO struct {
	Results     []entities.ExtractionResult `json:"results"`
	ResultCount int                         `json:"result_count"`
	PhoneCount  int                         `json:"phone_count"`
}

func NewExtractResultDTO(results []entities.ExtractionResult) ExtractResultDTO {
	if results == nil {
		results = []entities.ExtractionResult{}
	}
	return ExtractResultDTO{
		Results:     results,
		ResultCount: len(results),
		PhoneCount:  entities.PhoneTotal(results),
	}
}
