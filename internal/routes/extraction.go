package routes

import (
	"github.com/labstack/echo/v4"

	"bank-phone-extractor/internal/controllers"
)

func runExtractionRouter(group *echo.Group, deps Dependencies) {
	extractionCtrl := controllers.NewExtractionController(
		deps.Extractor,
		deps.Jobs,
		deps.Exporter,
		deps.FileStorage,
		deps.Config,
		deps.Logger,
	)

	group.POST("/extract", extractionCtrl.ExtractText)

	jobs := group.Group("/jobs")
	{
		jobs.POST("", extractionCtrl.StartJob)
		jobs.GET("/:id", extractionCtrl.GetJob)
		jobs.DELETE("/:id", extractionCtrl.CancelJob)
		jobs.GET("/:id/results", extractionCtrl.GetJobResults)
		jobs.GET("/:id/export", extractionCtrl.ExportJob)
	}
}
