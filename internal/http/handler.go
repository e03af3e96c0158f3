package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/perf-worksheet/internal/adapter/store"
	"go.ngs.io/perf-worksheet/internal/domain"
	"go.ngs.io/perf-worksheet/internal/urlstate"
	"go.ngs.io/perf-worksheet/internal/usecase"
)

// Handler handles HTTP requests for the performance worksheet.
type Handler struct {
	worksheetUC *usecase.WorksheetUseCase
	baseURL     string
}

// NewHandler creates a new HTTP handler. baseURL is the page that shared
// links point to.
func NewHandler(worksheetUC *usecase.WorksheetUseCase, baseURL string) *Handler {
	return &Handler{
		worksheetUC: worksheetUC,
		baseURL:     baseURL,
	}
}

// ListAircraft handles GET /v1/aircraft.
func (h *Handler) ListAircraft(c *gin.Context) {
	ids, err := h.worksheetUC.ListAircraft()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"aircraft": ids,
		"count":    len(ids),
	})
}

// GetAircraft handles GET /v1/aircraft/:id.
func (h *Handler) GetAircraft(c *gin.Context) {
	a, err := h.worksheetUC.GetAircraft(c.Param("id"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, a)
}

// GetWorksheet handles GET /v1/worksheet.
func (h *Handler) GetWorksheet(c *gin.Context) {
	ws := h.worksheetUC.Decode(c.Query(urlstate.Param))
	c.JSON(http.StatusOK, ws)
}

// ShareWorksheet handles POST /v1/worksheet/share. Fields missing from the
// body take their default values.
func (h *Handler) ShareWorksheet(c *gin.Context) {
	ws := domain.DefaultWorksheet()
	if err := c.ShouldBindJSON(&ws); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid worksheet: %v", err)})
		return
	}

	data, err := h.worksheetUC.Encode(ws)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	link, err := h.worksheetUC.ShareURL(h.baseURL, ws)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"url":  link,
	})
}

// GetCalculations handles GET /v1/worksheet/calculations.
func (h *Handler) GetCalculations(c *gin.Context) {
	ws := h.worksheetUC.Decode(c.Query(urlstate.Param))

	calc, err := h.worksheetUC.Calculate(ws)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, calc)
}

// GetAltitudes handles GET /v1/altitudes.
func (h *Handler) GetAltitudes(c *gin.Context) {
	altitudeStr := c.Query("altitude")
	altimeterStr := c.DefaultQuery("altimeter", strconv.FormatFloat(domain.StandardAltimeterInHg, 'f', -1, 64))
	tempCStr := c.Query("temp_c")
	tempFStr := c.Query("temp_f")

	if altitudeStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "altitude parameter is required"})
		return
	}
	altitude, err := strconv.ParseFloat(altitudeStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid altitude: %v", err)})
		return
	}
	altimeter, err := strconv.ParseFloat(altimeterStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid altimeter: %v", err)})
		return
	}

	var tempC float64
	switch {
	case tempCStr != "" && tempFStr != "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "temp_c and temp_f are mutually exclusive"})
		return
	case tempCStr != "":
		tempC, err = strconv.ParseFloat(tempCStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid temp_c: %v", err)})
			return
		}
	case tempFStr != "":
		tempF, err := strconv.ParseFloat(tempFStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid temp_f: %v", err)})
			return
		}
		tempC = domain.FahrenheitToCelsius(tempF)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "temp_c or temp_f parameter is required"})
		return
	}

	c.JSON(http.StatusOK, h.worksheetUC.Altitudes(altitude, altimeter, tempC))
}

// Interpolate handles POST /v1/interpolate.
func (h *Handler) Interpolate(c *gin.Context) {
	var req usecase.InterpolateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	res, err := h.worksheetUC.Interpolate(req)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"value":            res.Value,
		"was_extrapolated": res.WasExtrapolated,
		"bounds": gin.H{
			"x_min": res.Bounds.XMin,
			"x_max": res.Bounds.XMax,
			"y_min": res.Bounds.YMin,
			"y_max": res.Bounds.YMax,
		},
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrAircraftNotFound):
		return http.StatusNotFound
	case usecase.IsInputError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
