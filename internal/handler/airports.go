package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightoffers/internal/airports"
)

const defaultAirportLimit = 10

func AirportsHandler(c echo.Context) error {
	limit := defaultAirportLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return errorJSON(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
		}
		limit = n
	}
	return c.JSON(http.StatusOK, airports.Search(c.QueryParam("q"), limit))
}
