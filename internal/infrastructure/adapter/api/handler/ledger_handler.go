package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/usecase/ledger"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/api/dto"
)

// LedgerHandler handles ledger entry HTTP requests
type LedgerHandler struct {
	ledgerService *ledger.Service
	logger        coreport.Logger
}

// NewLedgerHandler creates a new ledger handler instance
func NewLedgerHandler(ledgerService *ledger.Service, logger coreport.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// RecordEntry handles the POST /company/{companyId}/entry endpoint
func (h *LedgerHandler) RecordEntry(c *gin.Context) {
	companyID, ok := companyIDParam(c)
	if !ok {
		return
	}

	var req dto.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid entry request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.ErrorCode(errs.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.ledgerService.RecordEntry(c.Request.Context(), companyID, ledger.EntryRequest{
		Reference: req.Reference,
		Direction: req.Direction,
		Amount:    req.Amount,
		Memo:      req.Memo,
	})
	if err != nil {
		status, message := statusForError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Error recording ledger entry", map[string]any{
				"companyId": companyID,
				"reference": req.Reference,
				"error":     err.Error(),
			})
		}
		c.JSON(status, dto.ErrorResponse{
			Code:    errs.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, dto.EntryResponse{
		EntryID:       result.EntryID,
		CompanyID:     companyID,
		Reference:     result.Reference,
		Direction:     result.Direction,
		Amount:        result.Amount,
		ResultBalance: result.ResultBalance,
	})
}

// GetEntry handles the GET /company/{companyId}/entry/{reference} endpoint
func (h *LedgerHandler) GetEntry(c *gin.Context) {
	companyID, ok := companyIDParam(c)
	if !ok {
		return
	}

	reference := c.Param("reference")
	entry, err := h.ledgerService.GetEntry(c.Request.Context(), companyID, reference)
	if err != nil {
		status, message := statusForError(err)
		c.JSON(status, dto.ErrorResponse{
			Code:    errs.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, dto.EntryResponse{
		EntryID:       entry.ID,
		CompanyID:     entry.CompanyID,
		Reference:     entry.Reference,
		Direction:     string(entry.Direction),
		Amount:        entry.Amount,
		Memo:          entry.Memo,
		ResultBalance: entry.ResultBalance,
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	})
}

// ListEntries handles the GET /company/{companyId}/entries endpoint
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	companyID, ok := companyIDParam(c)
	if !ok {
		return
	}

	limit := 0
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    errs.ErrorCode(errs.ErrInvalidRequest),
				Message: "Invalid limit parameter",
			})
			return
		}
		limit = parsed
	}

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), companyID, limit)
	if err != nil {
		status, message := statusForError(err)
		c.JSON(status, dto.ErrorResponse{
			Code:    errs.ErrorCode(err),
			Message: message,
		})
		return
	}

	response := dto.EntryListResponse{
		CompanyID: companyID,
		Entries:   make([]dto.EntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, dto.EntryResponse{
			EntryID:       entry.ID,
			CompanyID:     entry.CompanyID,
			Reference:     entry.Reference,
			Direction:     string(entry.Direction),
			Amount:        entry.Amount,
			Memo:          entry.Memo,
			ResultBalance: entry.ResultBalance,
			CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}

// companyIDParam extracts and validates the company ID path parameter.
// Writes the error response itself when the parameter is malformed.
func companyIDParam(c *gin.Context) (uint64, bool) {
	companyID, err := strconv.ParseUint(c.Param("companyId"), 10, 64)
	if err != nil || companyID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.ErrorCode(errs.ErrInvalidCompanyID),
			Message: "Invalid company ID format",
		})
		return 0, false
	}
	return companyID, true
}
