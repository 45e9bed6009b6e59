package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/controllers"
	"bank-phone-extractor/internal/repositories"
)

func runBankRouter(group *echo.Group, bankRepo repositories.BankRepositoryInterface, logger *zap.Logger) {
	bankCtrl := controllers.NewBankController(bankRepo, logger)
	{
		group.GET("/banks", bankCtrl.GetBanks)
		group.GET("/banks/major", bankCtrl.GetMajorBanks)
		group.GET("/banks/search", bankCtrl.SearchBanks)
		group.GET("/banks/:prefix", bankCtrl.FindBank)
	}
}
