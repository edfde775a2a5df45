package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/forecast"
)

type amountRequest struct {
	Amount string `json:"amount"`
	Source string `json:"source"`
}

type istCutoffRequest struct {
	IstCutoffOverride *int `json:"istCutoffOverride" binding:"omitempty,min=0"`
}

type lockRequest struct {
	Reason string `json:"reason"`
}

func (h *handler) createPlan(c *gin.Context) {
	var req forecast.PlanInput
	if err := bindJSON(c, &req); err != nil {
		h.respondWithError(c, err)
		return
	}

	plan, err := h.svc.CreatePlan(c.Request.Context(), req)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *handler) getPlan(c *gin.Context) {
	planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	plan, err := h.svc.GetPlan(c.Request.Context(), planID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *handler) getPlanByCase(c *gin.Context) {
	plan, err := h.svc.GetPlanByCase(c.Request.Context(), c.Param("caseId"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *handler) getForecast(c *gin.Context) {
	planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	data, err := h.svc.Recompute(c.Request.Context(), planID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// planMutation wraps the plan setting endpoints, which all answer with the
// recomputed forecast.
func (h *handler) planMutation(apply func(c *gin.Context, planID string) (*forecast.ForecastData, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
		if err != nil {
			h.respondWithError(c, err)
			return
		}

		data, err := apply(c, planID)
		if err != nil {
			h.respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	}
}

func (h *handler) setOpeningBalance(c *gin.Context, planID string) (*forecast.ForecastData, error) {
	var req amountRequest
	if err := bindJSON(c, &req); err != nil {
		return nil, err
	}
	return h.svc.SetOpeningBalance(c.Request.Context(), planID, req.Amount, req.Source)
}

func (h *handler) setCreditLine(c *gin.Context, planID string) (*forecast.ForecastData, error) {
	var req amountRequest
	if err := bindJSON(c, &req); err != nil {
		return nil, err
	}
	return h.svc.SetCreditLine(c.Request.Context(), planID, req.Amount, req.Source)
}

func (h *handler) setReserves(c *gin.Context, planID string) (*forecast.ForecastData, error) {
	var req amountRequest
	if err := bindJSON(c, &req); err != nil {
		return nil, err
	}
	return h.svc.SetReserves(c.Request.Context(), planID, req.Amount)
}

func (h *handler) setIstCutoff(c *gin.Context, planID string) (*forecast.ForecastData, error) {
	var req istCutoffRequest
	if err := bindJSON(c, &req); err != nil {
		return nil, err
	}
	return h.svc.SetIstCutoffOverride(c.Request.Context(), planID, req.IstCutoffOverride)
}

func (h *handler) lockPlan(c *gin.Context, planID string) (*forecast.ForecastData, error) {
	var req lockRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		return nil, err
	}
	return h.svc.LockPlan(c.Request.Context(), planID, req.Reason)
}

func (h *handler) unlockPlan(c *gin.Context, planID string) (*forecast.ForecastData, error) {
	return h.svc.UnlockPlan(c.Request.Context(), planID)
}

func (h *handler) syncIst(c *gin.Context) {
	planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	result, err := h.svc.SyncIst(c.Request.Context(), planID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
