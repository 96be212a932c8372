// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/application/usecase/matching"
	"github.com/procure-match/backend/internal/application/usecase/workflow"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/integration/entrypoint/dto"
	"github.com/procure-match/backend/internal/integration/entrypoint/middleware"
)

// MatchingController handles three-way match and workflow endpoints.
type MatchingController struct {
	computeSummaryUseCase     *matching.ComputeSummaryUseCase
	explainVarianceUseCase    *matching.ExplainVarianceUseCase
	resolveVarianceUseCase    *workflow.ResolveVarianceUseCase
	acceptAllUseCase          *workflow.AcceptAllUseCase
	generateCreditNoteUseCase *workflow.GenerateCreditNoteUseCase
	getAuditTrailUseCase      *workflow.GetAuditTrailUseCase
}

// NewMatchingController creates a new matching controller instance.
func NewMatchingController(
	computeSummaryUseCase *matching.ComputeSummaryUseCase,
	explainVarianceUseCase *matching.ExplainVarianceUseCase,
	resolveVarianceUseCase *workflow.ResolveVarianceUseCase,
	acceptAllUseCase *workflow.AcceptAllUseCase,
	generateCreditNoteUseCase *workflow.GenerateCreditNoteUseCase,
	getAuditTrailUseCase *workflow.GetAuditTrailUseCase,
) *MatchingController {
	return &MatchingController{
		computeSummaryUseCase:     computeSummaryUseCase,
		explainVarianceUseCase:    explainVarianceUseCase,
		resolveVarianceUseCase:    resolveVarianceUseCase,
		acceptAllUseCase:          acceptAllUseCase,
		generateCreditNoteUseCase: generateCreditNoteUseCase,
		getAuditTrailUseCase:      getAuditTrailUseCase,
	}
}

// GetMatch handles GET /purchase-orders/:id/match requests.
func (c *MatchingController) GetMatch(ctx *gin.Context) {
	purchaseOrderID, ok := c.parsePurchaseOrderID(ctx)
	if !ok {
		return
	}

	output, err := c.computeSummaryUseCase.Execute(ctx.Request.Context(), matching.ComputeSummaryInput{
		PurchaseOrderID: purchaseOrderID,
	})
	if err != nil {
		c.handleMatchingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMatchSummaryResponse(output.Summary))
}

// ResolveVariance handles POST /purchase-orders/:id/match/resolve requests.
func (c *MatchingController) ResolveVariance(ctx *gin.Context) {
	purchaseOrderID, ok := c.parsePurchaseOrderID(ctx)
	if !ok {
		return
	}

	actorID, actorEmail, ok := c.requireReviewer(ctx)
	if !ok {
		return
	}

	var req dto.ResolveVarianceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.resolveVarianceUseCase.Execute(ctx.Request.Context(), workflow.ResolveVarianceInput{
		PurchaseOrderID: purchaseOrderID,
		ItemKey:         req.ItemKey,
		Reason:          req.Reason,
		ActorID:         actorID,
		ActorEmail:      actorEmail,
	})
	if err != nil {
		c.handleMatchingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMatchSummaryResponse(output.Summary))
}

// AcceptAll handles POST /purchase-orders/:id/match/accept requests.
func (c *MatchingController) AcceptAll(ctx *gin.Context) {
	purchaseOrderID, ok := c.parsePurchaseOrderID(ctx)
	if !ok {
		return
	}

	actorID, actorEmail, ok := c.requireReviewer(ctx)
	if !ok {
		return
	}

	output, err := c.acceptAllUseCase.Execute(ctx.Request.Context(), workflow.AcceptAllInput{
		PurchaseOrderID: purchaseOrderID,
		ActorID:         actorID,
		ActorEmail:      actorEmail,
	})
	if err != nil {
		c.handleMatchingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMatchSummaryResponse(output.Summary))
}

// GenerateCreditNote handles POST /purchase-orders/:id/match/credit-note requests.
func (c *MatchingController) GenerateCreditNote(ctx *gin.Context) {
	purchaseOrderID, ok := c.parsePurchaseOrderID(ctx)
	if !ok {
		return
	}

	actorID, actorEmail, ok := c.requireReviewer(ctx)
	if !ok {
		return
	}

	output, err := c.generateCreditNoteUseCase.Execute(ctx.Request.Context(), workflow.GenerateCreditNoteInput{
		PurchaseOrderID: purchaseOrderID,
		ActorID:         actorID,
		ActorEmail:      actorEmail,
	})
	if err != nil {
		c.handleMatchingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.GenerateCreditNoteResponse{
		CreditNote: dto.ToCreditNoteDTO(output.CreditNote),
		Summary:    dto.ToMatchSummaryResponse(output.Summary),
	})
}

// ExplainVariance handles POST /purchase-orders/:id/match/explain requests.
func (c *MatchingController) ExplainVariance(ctx *gin.Context) {
	purchaseOrderID, ok := c.parsePurchaseOrderID(ctx)
	if !ok {
		return
	}

	output, err := c.explainVarianceUseCase.Execute(ctx.Request.Context(), matching.ExplainVarianceInput{
		PurchaseOrderID: purchaseOrderID,
	})
	if err != nil {
		c.handleMatchingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ExplainVarianceResponse{
		Explanation:     output.Explanation,
		ProbableCause:   output.ProbableCause,
		SuggestedAction: output.SuggestedAction,
	})
}

// GetAuditTrail handles GET /purchase-orders/:id/match/audit requests.
func (c *MatchingController) GetAuditTrail(ctx *gin.Context) {
	purchaseOrderID, ok := c.parsePurchaseOrderID(ctx)
	if !ok {
		return
	}

	output, err := c.getAuditTrailUseCase.Execute(ctx.Request.Context(), workflow.GetAuditTrailInput{
		PurchaseOrderID: purchaseOrderID,
	})
	if err != nil {
		c.handleMatchingError(ctx, err)
		return
	}

	events := make([]dto.AuditEventDTO, len(output.Events))
	for i, event := range output.Events {
		events[i] = dto.ToAuditEventDTO(event)
	}

	ctx.JSON(http.StatusOK, dto.AuditTrailResponse{
		PurchaseOrderID: purchaseOrderID.String(),
		Events:          events,
	})
}

// parsePurchaseOrderID extracts and validates the purchase order ID path parameter.
func (c *MatchingController) parsePurchaseOrderID(ctx *gin.Context) (uuid.UUID, bool) {
	purchaseOrderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid purchase order ID format",
		})
		return uuid.Nil, false
	}
	return purchaseOrderID, true
}

// requireReviewer extracts the authenticated reviewer from the context.
func (c *MatchingController) requireReviewer(ctx *gin.Context) (uuid.UUID, string, bool) {
	reviewerID, ok := middleware.GetReviewerIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Reviewer not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, "", false
	}

	reviewerEmail, _ := middleware.GetReviewerEmailFromContext(ctx)
	return reviewerID, reviewerEmail, true
}

// handleMatchingError handles matching and workflow errors and returns appropriate HTTP responses.
func (c *MatchingController) handleMatchingError(ctx *gin.Context, err error) {
	var matchingErr *domainerror.MatchingError
	if errors.As(err, &matchingErr) {
		ctx.JSON(c.statusCodeForMatchingError(matchingErr.Code), dto.ErrorResponse{
			Error: matchingErr.Message,
			Code:  string(matchingErr.Code),
		})
		return
	}

	var workflowErr *domainerror.WorkflowError
	if errors.As(err, &workflowErr) {
		ctx.JSON(c.statusCodeForWorkflowError(workflowErr.Code), dto.ErrorResponse{
			Error: workflowErr.Message,
			Code:  string(workflowErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusCodeForMatchingError maps matching error codes to HTTP status codes.
func (c *MatchingController) statusCodeForMatchingError(code domainerror.MatchingErrorCode) int {
	switch code {
	case domainerror.ErrCodePurchaseOrderNotFound,
		domainerror.ErrCodeRecordNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeDuplicateItemKey,
		domainerror.ErrCodeNegativeQuantity,
		domainerror.ErrCodeNegativePrice,
		domainerror.ErrCodeEmptyItemKey:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeExplainerUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeExplainerFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// statusCodeForWorkflowError maps workflow error codes to HTTP status codes.
func (c *MatchingController) statusCodeForWorkflowError(code domainerror.WorkflowErrorCode) int {
	switch code {
	case domainerror.ErrCodeAlreadyResolved,
		domainerror.ErrCodeCycleFinalized,
		domainerror.ErrCodeConcurrencyConflict,
		domainerror.ErrCodeSessionLocked:
		return http.StatusConflict
	case domainerror.ErrCodeRecordAwaitingDocuments,
		domainerror.ErrCodeCreditNoteNotAllowed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
