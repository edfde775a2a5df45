package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/forecast"
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
)

type assumptionResponse struct {
	Assumption *models.Assumption     `json:"assumption"`
	Forecast   *forecast.ForecastData `json:"forecast"`
}

type deleteAssumptionResponse struct {
	SoftDeleted bool                   `json:"softDeleted"`
	Forecast    *forecast.ForecastData `json:"forecast"`
}

type toggleRequest struct {
	IsActive *bool `json:"isActive"`
}

func (h *handler) listAssumptions(c *gin.Context) {
	planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	assumptions, err := h.svc.ListAssumptions(c.Request.Context(), planID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assumptions": assumptions})
}

func (h *handler) createAssumption(c *gin.Context) {
	planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	var req validation.AssumptionInput
	if err := bindJSON(c, &req); err != nil {
		h.respondWithError(c, err)
		return
	}

	assumption, data, err := h.svc.CreateAssumption(c.Request.Context(), planID, req)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assumptionResponse{Assumption: assumption, Forecast: data})
}

func (h *handler) updateAssumption(c *gin.Context) {
	planID, assumptionID, err := assumptionPath(c)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	var req validation.AssumptionInput
	if err := bindJSON(c, &req); err != nil {
		h.respondWithError(c, err)
		return
	}

	assumption, data, err := h.svc.UpdateAssumption(c.Request.Context(), planID, assumptionID, req)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, assumptionResponse{Assumption: assumption, Forecast: data})
}

func (h *handler) toggleAssumption(c *gin.Context) {
	planID, assumptionID, err := assumptionPath(c)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	var req toggleRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.respondWithError(c, err)
		return
	}

	assumption, data, err := h.svc.ToggleAssumption(c.Request.Context(), planID, assumptionID, req.IsActive)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, assumptionResponse{Assumption: assumption, Forecast: data})
}

func (h *handler) deleteAssumption(c *gin.Context) {
	planID, assumptionID, err := assumptionPath(c)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	softDeleted, data, err := h.svc.DeleteAssumption(c.Request.Context(), planID, assumptionID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleteAssumptionResponse{SoftDeleted: softDeleted, Forecast: data})
}

func assumptionPath(c *gin.Context) (string, string, error) {
	planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
	if err != nil {
		return "", "", err
	}
	assumptionID, err := pathID(c, "assumptionId", apperrors.ErrAssumptionNotFound)
	if err != nil {
		return "", "", err
	}
	return planID, assumptionID, nil
}
