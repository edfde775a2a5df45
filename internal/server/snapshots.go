package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/output"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
)

type snapshotRequest struct {
	Label string `json:"label"`
}

func (h *handler) createSnapshot(c *gin.Context) {
	planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	var req snapshotRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.respondWithError(c, err)
		return
	}

	snapshot, err := h.svc.CreateSnapshot(c.Request.Context(), planID, req.Label)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (h *handler) listSnapshots(c *gin.Context) {
	planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	snapshots, err := h.svc.ListSnapshots(c.Request.Context(), planID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}

func (h *handler) getSnapshot(c *gin.Context) {
	planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	snapshotID, err := pathID(c, "snapshotId", apperrors.ErrSnapshotNotFound)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	detail, err := h.svc.GetSnapshot(c.Request.Context(), planID, snapshotID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// exportForecast renders the current forecast as a download. CSV is the
// default format.
func (h *handler) exportForecast(c *gin.Context) {
	planID, err := pathID(c, "planId", apperrors.ErrPlanNotFound)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", constants.OutputFormatCSV)))
	if err := validation.ValidateOutputFormat(format); err != nil {
		h.respondWithError(c, apperrors.Validation("format", err.Error()))
		return
	}

	data, err := h.svc.Recompute(c.Request.Context(), planID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	var contentType, extension string
	switch format {
	case constants.OutputFormatCSV:
		contentType, extension = "text/csv; charset=utf-8", "csv"
		err = output.CsvFormat(&buf, data.Result())
	case constants.OutputFormatYAML:
		contentType, extension = "application/yaml; charset=utf-8", "yaml"
		err = output.YAMLFormat(&buf, data)
	default:
		contentType, extension = "text/plain; charset=utf-8", "txt"
		output.PrettyFormat(&buf, data.Result())
	}
	if err != nil {
		h.respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName(data.CaseID, extension)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func exportFileName(caseID, extension string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, caseID)
	return "liquiditaetsplan-" + safe + "." + extension
}
