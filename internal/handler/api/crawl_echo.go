package api

import (
	"context"
	"errors"

	"FinCrawl/internal/domain/models"
	"FinCrawl/internal/services/transform"
	"FinCrawl/internal/usecase"
	xhttp "FinCrawl/pkg/http"
	xlogger "FinCrawl/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CrawlService is the background runner the handler drives.
type CrawlService interface {
	Start(start, end string, sources []models.SourceID) error
	Status() usecase.RunStatus
	Health(ctx context.Context) error
}

// CrawlEchoHandler exposes the crawl control plane.
type CrawlEchoHandler struct {
	logger *xlogger.Logger
	runner CrawlService
}

func NewCrawlEchoHandler(logger *xlogger.Logger, runner CrawlService) *CrawlEchoHandler {
	return &CrawlEchoHandler{logger: logger, runner: runner}
}

func (h *CrawlEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api/v1")
	g.POST("/crawl", h.Crawl)
	g.GET("/crawl/status", h.Status)
}

func (h *CrawlEchoHandler) Crawl(c echo.Context) error {
	req := &models.CrawlRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if _, err := transform.ExpandDates(req.StartDate, req.EndDate); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("end_date", err.Error()).WithError(err))
	}

	sources := req.SourceIDs()
	if err := h.runner.Start(req.StartDate, req.EndDate, sources); err != nil {
		if errors.Is(err, usecase.ErrBusy) {
			return xhttp.AppErrorResponse(c, xhttp.ConflictError(err.Error()))
		}
		h.logger.Error("crawl start error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("crawl could not be started").WithError(err))
	}

	h.logger.Info("crawl accepted",
		xlogger.String("start", req.StartDate),
		xlogger.String("end", req.EndDate),
		xlogger.Any("sources", sources),
	)
	return xhttp.AcceptedResponse(c, h.runner.Status())
}

func (h *CrawlEchoHandler) Status(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.runner.Status())
}

func (h *CrawlEchoHandler) Health(c echo.Context) error {
	if err := h.runner.Health(c.Request().Context()); err != nil {
		h.logger.Warn("health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("sink unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
