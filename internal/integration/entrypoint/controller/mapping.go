// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/usecase/mapping"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/middleware"
)

// MappingController handles mapping endpoints.
type MappingController struct {
	upsertUseCase *mapping.UpsertMappingUseCase
	listUseCase   *mapping.ListMappingsUseCase
	deleteUseCase *mapping.DeleteMappingUseCase
}

// NewMappingController creates a new mapping controller instance.
func NewMappingController(
	upsertUseCase *mapping.UpsertMappingUseCase,
	listUseCase *mapping.ListMappingsUseCase,
	deleteUseCase *mapping.DeleteMappingUseCase,
) *MappingController {
	return &MappingController{
		upsertUseCase: upsertUseCase,
		listUseCase:   listUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// Upsert handles PUT /mappings requests. Re-learning an existing normalized
// key updates the stored mapping in place.
func (c *MappingController) Upsert(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.UpsertMappingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMappingMissingFields),
		})
		return
	}

	output, err := c.upsertUseCase.Execute(ctx.Request.Context(), mapping.UpsertMappingInput{
		UserID:         userID,
		Scope:          entity.MappingScope(req.Scope),
		OriginalValue:  req.OriginalValue,
		TargetCategory: req.TargetCategory,
		TargetMerchant: req.TargetMerchant,
		Confidence:     req.Confidence,
		Source:         entity.MappingSourceUser,
	})
	if err != nil {
		c.handleMappingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMappingResponse(output.Mapping))
}

// List handles GET /mappings requests. The scope query parameter filters by
// mapping scope.
func (c *MappingController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), mapping.ListMappingsInput{
		UserID: userID,
		Scope:  entity.MappingScope(ctx.Query("scope")),
	})
	if err != nil {
		c.handleMappingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMappingListResponse(output.Mappings))
}

// Delete handles DELETE /mappings/:id requests.
func (c *MappingController) Delete(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	mappingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid mapping ID",
			Code:  string(domainerror.ErrCodeMappingMissingFields),
		})
		return
	}

	_, err = c.deleteUseCase.Execute(ctx.Request.Context(), mapping.DeleteMappingInput{
		MappingID: mappingID,
		UserID:    userID,
	})
	if err != nil {
		c.handleMappingError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// handleMappingError handles mapping errors and returns appropriate HTTP responses.
func (c *MappingController) handleMappingError(ctx *gin.Context, err error) {
	var mappingErr *domainerror.MappingError
	if errors.As(err, &mappingErr) {
		statusCode := c.getStatusCodeForMappingError(mappingErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: mappingErr.Message,
			Code:  string(mappingErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForMappingError maps mapping error codes to HTTP status codes.
func (c *MappingController) getStatusCodeForMappingError(code domainerror.MappingErrorCode) int {
	switch code {
	case domainerror.ErrCodeMappingNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotMappingOwner:
		return http.StatusForbidden
	case domainerror.ErrCodeMappingMissingFields,
		domainerror.ErrCodeInvalidConfidence,
		domainerror.ErrCodeInvalidMappingScope:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
