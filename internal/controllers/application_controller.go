package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/keyhold/leaseback-service/internal/dtos"
	"github.com/keyhold/leaseback-service/internal/middleware"
	"github.com/keyhold/leaseback-service/internal/services"
	"github.com/keyhold/leaseback-service/internal/utils"
)

var applicationValidate = validator.New()

type ApplicationController struct {
	progressService    *services.ProgressService
	applicationService *services.ApplicationService
}

func NewApplicationController(
	ps *services.ProgressService,
	as *services.ApplicationService,
) *ApplicationController {
	return &ApplicationController{
		progressService:    ps,
		applicationService: as,
	}
}

func userIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ctxUserID := r.Context().Value(middleware.ContextKeyUserID)
	if ctxUserID == nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(ctxUserID.(string))
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Malformed userID in context", nil, err,
		)
		return uuid.Nil, false
	}
	return userID, true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return false
	}
	if err := applicationValidate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), nil,
		)
		return false
	}
	return true
}

// ----------------------------------------------------------------
// GET /api/v1/application/progress
// ----------------------------------------------------------------
func (c *ApplicationController) GetProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	resp, err := c.progressService.ResolveProgress(r.Context(), userID)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to resolve application progress")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// POST /api/v1/application/sellers
// ----------------------------------------------------------------
func (c *ApplicationController) CreateSellersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req dtos.CreateSellersRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := c.applicationService.CreateSellerProfiles(r.Context(), userID, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ----------------------------------------------------------------
// PUT /api/v1/application/property
// ----------------------------------------------------------------
func (c *ApplicationController) SubmitPropertyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req dtos.PropertyInput
	if !decodeAndValidate(w, r, &req) {
		return
	}

	property, err := c.applicationService.SubmitProperty(r.Context(), userID, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, property)
}

// ----------------------------------------------------------------
// POST /api/v1/application/review
// ----------------------------------------------------------------
func (c *ApplicationController) SubmitReviewHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req dtos.SubmitReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	review, err := c.applicationService.SubmitReview(r.Context(), userID, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, review)
}

// ----------------------------------------------------------------
// POST /api/v1/application/offer/decision
// ----------------------------------------------------------------
func (c *ApplicationController) DecideOfferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req dtos.DecideOfferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	offer, err := c.applicationService.DecideOffer(r.Context(), userID, req.Decision)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, offer)
}

// ----------------------------------------------------------------
// POST /api/v1/application/completion
// ----------------------------------------------------------------
func (c *ApplicationController) ChooseCompletionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req dtos.ChooseCompletionPathRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	completion, err := c.applicationService.ChooseCompletionPath(r.Context(), userID, req.Path)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, completion)
}

// ----------------------------------------------------------------
// PATCH /api/v1/admin/reviews/{id}/status
// ----------------------------------------------------------------
func (c *ApplicationController) UpdateReviewStatusHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid review id", nil, err,
		)
		return
	}

	var req dtos.UpdateReviewStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.applicationService.UpdateReviewStatus(r.Context(), reviewID, req.Status); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// ----------------------------------------------------------------
// POST /api/v1/admin/offers
// ----------------------------------------------------------------
func (c *ApplicationController) CreateOfferHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateOfferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	offer, err := c.applicationService.CreateOffer(r.Context(), &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, offer)
}
