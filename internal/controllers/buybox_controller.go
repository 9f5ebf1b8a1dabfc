package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/keyhold/leaseback-service/internal/dtos"
	"github.com/keyhold/leaseback-service/internal/services"
	"github.com/keyhold/leaseback-service/internal/utils"
)

type BuyBoxController struct {
	buyBoxService *services.BuyBoxService
}

func NewBuyBoxController(bs *services.BuyBoxService) *BuyBoxController {
	return &BuyBoxController{buyBoxService: bs}
}

func buyBoxIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid buy box id", nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/v1/admin/buy-boxes
func (c *BuyBoxController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	adminID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req dtos.CreateBuyBoxRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	box, err := c.buyBoxService.Create(r.Context(), adminID, req.Name)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, box)
}

// GET /api/v1/admin/buy-boxes
func (c *BuyBoxController) ListHandler(w http.ResponseWriter, r *http.Request) {
	boxes, err := c.buyBoxService.List(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, boxes)
}

// GET /api/v1/admin/buy-boxes/{id}
func (c *BuyBoxController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := buyBoxIDFromPath(w, r)
	if !ok {
		return
	}

	resp, err := c.buyBoxService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/admin/buy-boxes/{id}/properties
func (c *BuyBoxController) AddPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := buyBoxIDFromPath(w, r)
	if !ok {
		return
	}

	var req dtos.BuyBoxPropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid property id", nil, err,
		)
		return
	}

	if err := c.buyBoxService.AddProperty(r.Context(), id, propertyID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"result": "added"})
}

// DELETE /api/v1/admin/buy-boxes/{id}/properties
func (c *BuyBoxController) RemovePropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := buyBoxIDFromPath(w, r)
	if !ok {
		return
	}

	var req dtos.BuyBoxPropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid property id", nil, err,
		)
		return
	}

	if err := c.buyBoxService.RemoveProperty(r.Context(), id, propertyID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"result": "removed"})
}
