package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/dto"
	"github.com/BarkinBalci/ad-scouter-service/internal/service"
)

type Handler struct {
	ingestService service.IngestServicer
	adService     service.AdServicer
	statsService  service.StatsServicer
	router        *gin.Engine
	log           *zap.Logger
}

func NewHandler(ingestService service.IngestServicer, adService service.AdServicer, statsService service.StatsServicer, log *zap.Logger) *Handler {
	h := &Handler{
		ingestService: ingestService,
		adService:     adService,
		statsService:  statsService,
		router:        gin.New(),
		log:           log,
	}
	h.router.Use(gin.Logger(), gin.CustomRecovery(h.recovery))

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.Use(cors())

	h.router.GET("/health", h.healthCheck)
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.router.POST("/ingest", h.ingest)
	h.router.OPTIONS("/ingest", preflight)
	h.router.POST("/ads", h.composeAd)
	h.router.OPTIONS("/ads", preflight)
	h.router.GET("/stats", h.getLeadStats)
}

// cors adds wildcard CORS headers to every response
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Next()
	}
}

// recovery answers a panicking request with the usual JSON error body
func (h *Handler) recovery(c *gin.Context, recovered any) {
	h.log.Error("Recovered from panic in request handler",
		zap.String("path", c.Request.URL.Path),
		zap.Any("panic", recovered))
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "internal_error",
		Message: "internal server error",
	})
}

func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ingest handles POST /ingest
// @Summary Ingest a client event
// @Description Validate a client event and append it to the ingest stream, partitioned by apiKey
// @Tags ingest
// @Accept json
// @Produce json
// @Param event body domain.IngestEvent true "Event data"
// @Success 202 {object} dto.IngestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /ingest [post]
func (h *Handler) ingest(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.log.Warn("Failed to read ingest body", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "malformed_input",
			Message: err.Error(),
		})
		return
	}

	if err := h.ingestService.Ingest(c.Request.Context(), body); err != nil {
		h.writeError(c, "Failed to ingest event", err)
		return
	}

	c.JSON(http.StatusAccepted, dto.IngestResponse{
		Message: "Event received successfully.",
	})
}

// composeAd handles POST /ads
// @Summary Compose an ad for a live query
// @Description Match the query against the advertiser catalog and return personalized ad copy
// @Tags ads
// @Accept json
// @Produce json
// @Param request body dto.AdRequest true "User query"
// @Success 200 {object} dto.AdResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /ads [post]
func (h *Handler) composeAd(c *gin.Context) {
	var req dto.AdRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid ad request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "malformed_input",
			Message: err.Error(),
		})
		return
	}

	response, err := h.adService.ComposeAd(c.Request.Context(), req.Query)
	if err != nil {
		h.writeError(c, "Failed to compose ad", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// getLeadStats handles GET /stats
// @Summary Get aggregated lead statistics
// @Description Retrieve identified sales leads with optional grouping by advertiser, hour, or day
// @Tags stats
// @Produce json
// @Param customer_id query string false "Customer (apiKey) to filter by" example:"customer-1"
// @Param from query int true "Start timestamp (Unix epoch)" example:"1723475612"
// @Param to query int true "End timestamp (Unix epoch)" example:"1723562012"
// @Param group_by query string false "Field to group by (advertiser, hour, day)" Enums(advertiser, hour, day) example:"advertiser"
// @Success 200 {object} dto.GetLeadStatsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stats [get]
func (h *Handler) getLeadStats(c *gin.Context) {
	var req dto.GetLeadStatsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid stats request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.statsService.GetLeadStats(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, "Failed to get lead stats", err)
		return
	}

	h.log.Info("Lead stats retrieved",
		zap.String("customer_id", req.CustomerID),
		zap.Uint64("total_count", response.TotalCount))

	c.JSON(http.StatusOK, response)
}

// writeError maps service errors onto status codes and error codes
func (h *Handler) writeError(c *gin.Context, msg string, err error) {
	status, code := http.StatusInternalServerError, "internal_error"

	switch {
	case errors.Is(err, service.ErrMalformedInput):
		status, code = http.StatusBadRequest, "malformed_input"
	case errors.Is(err, service.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, service.ErrInvalidRequest):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, service.ErrEmptyQuery):
		status, code = http.StatusBadRequest, "empty_query"
	case errors.Is(err, service.ErrNoMatch):
		status, code = http.StatusNotFound, "no_match"
	case errors.Is(err, service.ErrEmbeddingUnavailable):
		code = "embedding_unavailable"
	}

	if status >= http.StatusInternalServerError {
		h.log.Error(msg, zap.Error(err))
	} else {
		h.log.Warn(msg, zap.Error(err))
	}

	c.JSON(status, dto.ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}
