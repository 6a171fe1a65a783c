package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/usecase/ledger"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/api/dto"
)

// CompanyHandler handles company HTTP requests
type CompanyHandler struct {
	ledgerService *ledger.Service
	logger        coreport.Logger
}

// NewCompanyHandler creates a new company handler instance
func NewCompanyHandler(ledgerService *ledger.Service, logger coreport.Logger) *CompanyHandler {
	return &CompanyHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// CreateCompany handles the POST /company endpoint
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req dto.CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.ErrorCode(errs.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	openingBalance := req.OpeningBalance
	if openingBalance == "" {
		openingBalance = "0"
	}

	result, err := h.ledgerService.CreateCompany(c.Request.Context(), req.ID, req.Name, openingBalance)
	if err != nil {
		status, message := statusForError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Error creating company", map[string]any{
				"companyId": req.ID,
				"error":     err.Error(),
			})
		}
		c.JSON(status, dto.ErrorResponse{
			Code:    errs.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.BalanceResponse{
		CompanyID:  result.CompanyID,
		Name:       result.Name,
		Balance:    result.Balance,
		EntryCount: result.EntryCount,
	})
}

// GetBalance handles the GET /company/{companyId}/balance endpoint
func (h *CompanyHandler) GetBalance(c *gin.Context) {
	companyID, ok := companyIDParam(c)
	if !ok {
		return
	}

	result, err := h.ledgerService.GetBalance(c.Request.Context(), companyID)
	if err != nil {
		status, message := statusForError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Error getting company balance", map[string]any{
				"companyId": companyID,
				"error":     err.Error(),
			})
		}
		c.JSON(status, dto.ErrorResponse{
			Code:    errs.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		CompanyID:  result.CompanyID,
		Name:       result.Name,
		Balance:    result.Balance,
		EntryCount: result.EntryCount,
	})
}
