package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/subwatch-ai/subwatch/internal/aggregate"
	"github.com/subwatch-ai/subwatch/internal/common"
	"github.com/subwatch-ai/subwatch/internal/model"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type summaryResponse struct {
	TotalMonthly   float64                   `json:"totalMonthly"`
	Count          int                       `json:"count"`
	CategoryTotals []aggregate.CategoryTotal `json:"categoryTotals"`
}

type scanResponse struct {
	Fetched int `json:"fetched"`
	Added   int `json:"added"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
	})
}

func (s *Server) handleListSubscriptions(c echo.Context) error {
	query := c.QueryParam("q")
	category := c.QueryParam("category")
	if category == "" {
		category = aggregate.AllCategories
	}

	subs := aggregate.Filter(s.session.Subscriptions().List(), query, category)
	return c.JSON(http.StatusOK, subs)
}

func (s *Server) handleGetSubscription(c echo.Context) error {
	sub, ok := s.session.Subscriptions().Get(c.Param("id"))
	if !ok {
		return s.errorJSON(c, common.ErrNotFound)
	}
	return c.JSON(http.StatusOK, sub)
}

func (s *Server) handleDeleteSubscription(c echo.Context) error {
	if err := s.session.Subscriptions().Remove(c.Param("id")); err != nil {
		return s.errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCancellationDraft(c echo.Context) error {
	sub, ok := s.session.Subscriptions().Get(c.Param("id"))
	if !ok {
		return s.errorJSON(c, common.ErrNotFound)
	}

	user, _ := s.session.User()
	draft := s.advisor.CancellationDraft(c.Request().Context(), sub, user.Name)
	return c.JSON(http.StatusOK, map[string]string{"draft": draft})
}

func (s *Server) handleSummary(c echo.Context) error {
	subs := s.session.Subscriptions().List()
	return c.JSON(http.StatusOK, summaryResponse{
		TotalMonthly:   aggregate.TotalMonthly(subs),
		Count:          len(subs),
		CategoryTotals: aggregate.CategoryTotals(subs),
	})
}

func (s *Server) handleRenewals(c echo.Context) error {
	// Top three, same as the dashboard's upcoming-renewals card.
	limit := 3
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		}
		limit = n
	}

	subs := s.session.Subscriptions().List()
	renewals := aggregate.UpcomingRenewals(subs, time.Now(), limit)
	if renewals == nil {
		renewals = []model.Subscription{}
	}
	return c.JSON(http.StatusOK, renewals)
}

func (s *Server) handleProjection(c echo.Context) error {
	months := 6
	if raw := c.QueryParam("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "months must be a positive integer"})
		}
		months = n
	}

	points := aggregate.MonthlyProjection(s.session.Subscriptions().List(), time.Now(), months)
	return c.JSON(http.StatusOK, points)
}

func (s *Server) handleTips(c echo.Context) error {
	tips := s.advisor.SavingsTips(c.Request().Context(), s.session.Subscriptions().List())
	return c.JSON(http.StatusOK, map[string][]string{"tips": tips})
}

func (s *Server) handleScan(c echo.Context) error {
	result, err := s.engine.Scan(c.Request().Context())
	if err != nil {
		return s.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, scanResponse{Fetched: result.Fetched, Added: result.Added})
}

// errorJSON maps domain errors to HTTP status codes.
func (s *Server) errorJSON(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrScanInProgress):
		status = http.StatusConflict
	case errors.Is(err, common.ErrMailConnector):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}
