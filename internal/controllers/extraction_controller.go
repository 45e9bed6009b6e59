package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	uploadconfig "bank-phone-extractor/config"
	"bank-phone-extractor/internal/dto"
	"bank-phone-extractor/internal/services"
	"bank-phone-extractor/pkg/config"
	apperrors "bank-phone-extractor/pkg/errors"
	"bank-phone-extractor/pkg/filestorage"
	"bank-phone-extractor/pkg/utils"
	"bank-phone-extractor/pkg/validation"
)

const sourceUploadContext = "source_file"

type ExtractionController struct {
	extractor   *services.ExtractorService
	jobs        services.JobServiceInterface
	exporter    services.ExporterServiceInterface
	fileStorage filestorage.FileStorageInterface
	cfg         *config.Config
	logger      *zap.Logger
}

func NewExtractionController(
	extractor *services.ExtractorService,
	jobs services.JobServiceInterface,
	exporter services.ExporterServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	cfg *config.Config,
	logger *zap.Logger,
) *ExtractionController {
	return &ExtractionController{
		extractor:   extractor,
		jobs:        jobs,
		exporter:    exporter,
		fileStorage: fileStorage,
		cfg:         cfg,
		logger:      logger,
	}
}

// ExtractText — короткий текст обрабатываем сразу, длинный уходит в фоновую задачу (202).
func (c *ExtractionController) ExtractText(ctx echo.Context) error {
	var req dto.ExtractTextDTO
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}
	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if strings.TrimSpace(req.Text) == "" {
		return utils.ErrorResponse(ctx, apperrors.ErrEmptyInput, c.logger)
	}

	if len(req.Text) > c.cfg.Extraction.AsyncThresholdBytes {
		job, err := c.jobs.StartText(req.Bank, req.Text)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, job, "Текст большой, обработка запущена в фоне", http.StatusAccepted)
	}

	if _, err := c.extractor.ResolveBank(req.Bank); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	results := c.extractor.ProcessText(req.Bank, req.Text)
	return utils.SuccessResponse(ctx, dto.NewExtractResultDTO(results), "Телефоны извлечены", http.StatusOK)
}

// StartJob принимает файл, сохраняет его и запускает обработку.
func (c *ExtractionController) StartJob(ctx echo.Context) error {
	rules := uploadconfig.UploadContexts[sourceUploadContext]

	var req dto.StartJobDTO
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверные параметры формы"), c.logger)
	}
	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Файл не был передан", apperrors.ErrBadRequest, nil),
			c.logger,
		)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка обработки файла", err, nil),
			c.logger,
		)
	}
	defer src.Close()

	if err := validation.ValidateFile(fileHeader, src, sourceUploadContext); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	savedPath, err := c.fileStorage.Save(src, fileHeader.Filename, rules.PathPrefix)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка сохранения файла", err, nil),
			c.logger,
		)
	}

	job, err := c.jobs.Start(req.Bank, c.fileStorage.Path(savedPath), services.StartOptions{
		Source:       fileHeader.Filename,
		ChunkSize:    req.ChunkSize,
		RemoveSource: true,
	})
	if err != nil {
		_ = c.fileStorage.Delete(savedPath)
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	c.logger.Info("Файл принят в обработку",
		zap.String("jobID", job.ID),
		zap.String("file", fileHeader.Filename),
		zap.Int64("size", fileHeader.Size),
	)
	return utils.SuccessResponse(ctx, job, "Файл загружен, обработка запущена", http.StatusAccepted)
}

func (c *ExtractionController) GetJob(ctx echo.Context) error {
	job, err := c.jobs.Get(ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, job, "Состояние задачи", http.StatusOK)
}

func (c *ExtractionController) GetJobResults(ctx echo.Context) error {
	results, err := c.jobs.Results(ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewExtractResultDTO(results), "Результаты задачи", http.StatusOK)
}

func (c *ExtractionController) CancelJob(ctx echo.Context) error {
	job, err := c.jobs.Cancel(ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, job, "Задача отменена", http.StatusOK)
}

// ExportJob отдаёт результаты завершённой задачи файлом xlsx (по умолчанию), txt или csv.
func (c *ExtractionController) ExportJob(ctx echo.Context) error {
	var query dto.ExportQueryDTO
	if err := ctx.Bind(&query); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат выгрузки"), c.logger)
	}
	if err := ctx.Validate(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	format := strings.ToLower(query.Format)
	if format == "" {
		format = "xlsx"
	}

	id := ctx.Param("id")
	results, err := c.jobs.Results(id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	path := filepath.Join(c.cfg.Storage.ExportsDir, id+"."+format)
	if err := c.exporter.Export(path, results); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось сохранить результаты", err, map[string]interface{}{"jobID": id}),
			c.logger,
		)
	}
	return ctx.Attachment(path, "telefonos-"+id+"."+format)
}
