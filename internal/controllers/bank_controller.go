package controllers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/dto"
	"bank-phone-extractor/internal/repositories"
	"bank-phone-extractor/pkg/api"
	apperrors "bank-phone-extractor/pkg/errors"
	"bank-phone-extractor/pkg/utils"
)

type BankController struct {
	bankRepo repositories.BankRepositoryInterface
	logger   *zap.Logger
}

func NewBankController(bankRepo repositories.BankRepositoryInterface, logger *zap.Logger) *BankController {
	return &BankController{bankRepo: bankRepo, logger: logger}
}

func (c *BankController) GetBanks(ctx echo.Context) error {
	return api.SuccessList(ctx, "Список банков получен", c.bankRepo.All())
}

func (c *BankController) GetMajorBanks(ctx echo.Context) error {
	return api.SuccessList(ctx, "Основные банки", c.bankRepo.Major())
}

func (c *BankController) SearchBanks(ctx echo.Context) error {
	var query dto.BankSearchDTO
	if err := ctx.Bind(&query); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверные параметры поиска"), c.logger)
	}
	if err := ctx.Validate(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "Результаты поиска", c.bankRepo.Search(query.Query))
}

func (c *BankController) FindBank(ctx echo.Context) error {
	prefix, err := url.PathUnescape(ctx.Param("prefix"))
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный префикс банка", err, map[string]interface{}{"param": ctx.Param("prefix")}),
			c.logger,
		)
	}

	bank, err := c.bankRepo.FindByPrefix(prefix)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Банк найден", bank)
}
