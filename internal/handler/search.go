package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightoffers/internal/gateway"
	"github.com/dharmasatrya/flightoffers/internal/models"
)

const (
	HeaderFlightSource   = "X-Flight-Source"
	HeaderFallbackReason = "X-Fallback-Reason"
	HeaderCache          = "X-Cache"
)

type SearchHandler struct {
	gateway *gateway.Gateway
}

func NewSearchHandler(g *gateway.Gateway) *SearchHandler {
	return &SearchHandler{gateway: g}
}

// Search always answers 200. The body is the upstream payload verbatim or the
// fallback set; the headers say which.
func (h *SearchHandler) Search(c echo.Context) error {
	req := models.SearchRequestFromQuery(c.QueryParams())
	res := h.gateway.Search(c.Request().Context(), req)

	writeSourceHeaders(c, res.Source, res.Reason)
	if res.CacheHit {
		c.Response().Header().Set(HeaderCache, "HIT")
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, res.Body)
}

func (h *SearchHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.gateway.Stats())
}

func writeSourceHeaders(c echo.Context, source gateway.Source, reason gateway.Reason) {
	if source != "" {
		c.Response().Header().Set(HeaderFlightSource, string(source))
	}
	if reason != gateway.ReasonNone {
		c.Response().Header().Set(HeaderFallbackReason, string(reason))
	}
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	})
}
