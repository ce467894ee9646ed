// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/usecase/transaction"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/middleware"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	createUseCase *transaction.CreateTransactionUseCase
	listUseCase   *transaction.ListTransactionsUseCase
	getUseCase    *transaction.GetTransactionUseCase
	updateUseCase *transaction.UpdateTransactionUseCase
	deleteUseCase *transaction.DeleteTransactionUseCase
	scanUseCase   *transaction.ScanReceiptUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	createUseCase *transaction.CreateTransactionUseCase,
	listUseCase *transaction.ListTransactionsUseCase,
	getUseCase *transaction.GetTransactionUseCase,
	updateUseCase *transaction.UpdateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
	scanUseCase *transaction.ScanReceiptUseCase,
) *TransactionController {
	return &TransactionController{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		scanUseCase:   scanUseCase,
	}
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMerchantRequired),
		})
		return
	}

	sharedGroupID, ok := c.parseOptionalGroupID(ctx, req.SharedGroupID)
	if !ok {
		return
	}

	input := transaction.CreateTransactionInput{
		UserID:        userID,
		Merchant:      req.Merchant,
		Date:          req.Date,
		Total:         req.Total,
		Category:      req.Category,
		Notes:         req.Notes,
		ImageURL:      req.ImageURL,
		SharedGroupID: sharedGroupID,
		Items:         toItemInputs(req.Items),
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(output.Transaction))
}

// List handles GET /transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}

	input := transaction.ListTransactionsInput{
		UserID:   userID,
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
	}

	if v := ctx.Query("start_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			input.StartDate = &t
		}
	}
	if v := ctx.Query("end_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			input.EndDate = &t
		}
	}
	if v := ctx.Query("shared_group_id"); v != "" {
		groupID, err := uuid.Parse(v)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid shared group ID",
			})
			return
		}
		input.SharedGroupID = &groupID
	}
	if v := ctx.Query("page"); v != "" {
		input.Page, _ = strconv.Atoi(v)
	}
	if v := ctx.Query("limit"); v != "" {
		input.Limit, _ = strconv.Atoi(v)
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output.Result))
}

// Get handles GET /transactions/:id requests.
func (c *TransactionController) Get(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := c.parseTransactionID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), transaction.GetTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// Update handles PATCH /transactions/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := c.parseTransactionID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	sharedGroupID, ok := c.parseOptionalGroupID(ctx, req.SharedGroupID)
	if !ok {
		return
	}

	input := transaction.UpdateTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
		Merchant:      req.Merchant,
		Date:          req.Date,
		Total:         req.Total,
		Category:      req.Category,
		Notes:         req.Notes,
		SharedGroupID: sharedGroupID,
		ClearGroup:    req.ClearGroup,
		Items:         toItemInputs(req.Items),
		ReplaceItems:  req.ReplaceItems,
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := c.parseTransactionID(ctx)
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), transaction.DeleteTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Scan handles POST /transactions/scan requests. The returned draft is not
// persisted; the client reviews it and submits through Create.
func (c *TransactionController) Scan(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}

	var req dto.ScanReceiptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	imageData, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Image must be base64 encoded",
		})
		return
	}

	output, err := c.scanUseCase.Execute(ctx.Request.Context(), transaction.ScanReceiptInput{
		UserID:    userID,
		ImageData: imageData,
		MimeType:  req.MimeType,
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	response := dto.ScanReceiptResponse{
		Draft: dto.ToTransactionResponse(&output.Draft),
	}
	for _, id := range output.AppliedMappingIDs {
		response.AppliedMappingIDs = append(response.AppliedMappingIDs, id.String())
	}

	ctx.JSON(http.StatusOK, response)
}

// authenticatedUser extracts the authenticated user from the context.
func (c *TransactionController) authenticatedUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// parseTransactionID parses the transaction ID path parameter.
func (c *TransactionController) parseTransactionID(ctx *gin.Context) (uuid.UUID, bool) {
	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID",
		})
		return uuid.Nil, false
	}
	return transactionID, true
}

// parseOptionalGroupID parses an optional shared group ID from a request body.
func (c *TransactionController) parseOptionalGroupID(ctx *gin.Context, raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	groupID, err := uuid.Parse(*raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid shared group ID",
		})
		return nil, false
	}
	return &groupID, true
}

// toItemInputs converts item request DTOs to use case item inputs.
func toItemInputs(items []dto.TransactionItemRequest) []transaction.CreateTransactionItemInput {
	if len(items) == 0 {
		return nil
	}
	inputs := make([]transaction.CreateTransactionItemInput, len(items))
	for i, item := range items {
		inputs[i] = transaction.CreateTransactionItemInput{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Category: item.Category,
		}
	}
	return inputs
}

// handleTransactionError handles transaction errors and returns appropriate
// HTTP responses. Group-tagging preconditions surface as group errors.
func (c *TransactionController) handleTransactionError(ctx *gin.Context, err error) {
	var txErr *domainerror.TransactionError
	if errors.As(err, &txErr) {
		ctx.JSON(c.getStatusCodeForTransactionError(txErr.Code), dto.ErrorResponse{
			Error: txErr.Message,
			Code:  string(txErr.Code),
		})
		return
	}

	var groupErr *domainerror.GroupError
	if errors.As(err, &groupErr) {
		status := http.StatusBadRequest
		switch groupErr.Code {
		case domainerror.ErrCodeGroupNotFound:
			status = http.StatusNotFound
		case domainerror.ErrCodeNotAMember:
			status = http.StatusForbidden
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error: groupErr.Message,
			Code:  string(groupErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForTransactionError maps transaction error codes to HTTP
// status codes.
func (c *TransactionController) getStatusCodeForTransactionError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedTransaction:
		return http.StatusForbidden
	case domainerror.ErrCodeMerchantRequired,
		domainerror.ErrCodeInvalidTransactionDate,
		domainerror.ErrCodeInvalidTransactionTotal,
		domainerror.ErrCodeSharingDisabled:
		return http.StatusBadRequest
	case domainerror.ErrCodeExtractionUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeExtractionFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
