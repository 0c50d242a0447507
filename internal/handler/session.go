package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightoffers/internal/filter"
	"github.com/dharmasatrya/flightoffers/internal/models"
	"github.com/dharmasatrya/flightoffers/internal/session"
)

type SessionHandler struct {
	store    *session.Store
	searcher session.Searcher
}

func NewSessionHandler(store *session.Store, searcher session.Searcher) *SessionHandler {
	return &SessionHandler{
		store:    store,
		searcher: searcher,
	}
}

func (h *SessionHandler) Create(c echo.Context) error {
	s := h.store.Create()
	return c.JSON(http.StatusCreated, s.View("", ""))
}

func (h *SessionHandler) Get(c echo.Context) error {
	s, ok := h.lookup(c)
	if !ok {
		return sessionNotFound(c)
	}
	return h.view(c, s)
}

// Search runs a search inside the session; query parameters match GET /search.
func (h *SessionHandler) Search(c echo.Context) error {
	s, ok := h.lookup(c)
	if !ok {
		return sessionNotFound(c)
	}

	req := models.SearchRequestFromQuery(c.QueryParams())
	s.Search(c.Request().Context(), h.searcher, req)
	return h.view(c, s)
}

func (h *SessionHandler) SetFilters(c echo.Context) error {
	s, ok := h.lookup(c)
	if !ok {
		return sessionNotFound(c)
	}

	var cfg filter.Config
	if err := c.Bind(&cfg); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse filters: "+err.Error())
	}
	if err := s.SetFilters(cfg); err != nil {
		return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
	}
	return h.view(c, s)
}

func (h *SessionHandler) ResetFilters(c echo.Context) error {
	s, ok := h.lookup(c)
	if !ok {
		return sessionNotFound(c)
	}
	s.ResetFilters()
	return h.view(c, s)
}

func (h *SessionHandler) Delete(c echo.Context) error {
	if !h.store.Delete(c.Param("id")) {
		return sessionNotFound(c)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) lookup(c echo.Context) (*session.Session, bool) {
	return h.store.Get(c.Param("id"))
}

func (h *SessionHandler) view(c echo.Context, s *session.Session) error {
	sortBy := c.QueryParam("sort")
	if !filter.IsSortKey(sortBy) {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "unknown sort key: "+sortBy)
	}

	v := s.View(sortBy, c.QueryParam("order"))
	writeSourceHeaders(c, v.Source, v.Reason)
	return c.JSON(http.StatusOK, v)
}

func sessionNotFound(c echo.Context) error {
	return errorJSON(c, http.StatusNotFound, "not_found", "session not found")
}
