package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/api/handler"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	companyHandler *handler.CompanyHandler,
	ledgerHandler *handler.LedgerHandler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	companyRoutes := router.Group("/company")
	{
		// POST /company
		companyRoutes.POST("", companyHandler.CreateCompany)

		// GET /company/:companyId/balance
		companyRoutes.GET("/:companyId/balance", companyHandler.GetBalance)

		// POST /company/:companyId/entry
		companyRoutes.POST("/:companyId/entry", ledgerHandler.RecordEntry)

		// GET /company/:companyId/entry/:reference
		companyRoutes.GET("/:companyId/entry/:reference", ledgerHandler.GetEntry)

		// GET /company/:companyId/entries
		companyRoutes.GET("/:companyId/entries", ledgerHandler.ListEntries)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
}
