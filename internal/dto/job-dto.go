package dto

// StartJobDTO: поля multipart-формы вместе с файлом.
type StartJobDTO struct {
	Bank      string `form:"bank" validate:"omitempty,iban_prefix"`
	ChunkSize int    `form:"chunk_size" validate:"omitempty,min=1,max=1000000"`
}

// ExportQueryDTO: формат выгрузки результатов задачи.
type ExportQueryDTO struct {
	Format string `query:"format" validate:"omitempty,oneof=xlsx txt csv"`
}
