package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tomepromo/backend/internal/domain"
)

const (
	serviceName    = "tomepromo-backend"
	serviceVersion = "1.0.0"
)

// MetadataUsecase is the behavior the handlers need from the usecase layer
type MetadataUsecase interface {
	ExtractMetadata(ctx context.Context, request *domain.ExtractRequest) (*domain.MetadataRecord, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	metadata MetadataUsecase
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil usecase makes the
// extraction endpoint answer 503.
func NewHandler(metadata MetadataUsecase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		metadata: metadata,
		logger:   logger.Named("http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ExtractMetadata handles product metadata extraction requests
func (h *Handler) ExtractMetadata(c *gin.Context) {
	if h.metadata == nil {
		c.JSON(http.StatusServiceUnavailable, domain.ErrorResponse{Error: "metadata service not configured"})
		return
	}

	var request domain.ExtractRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body: url is required"})
		return
	}

	record, err := h.metadata.ExtractMetadata(c.Request.Context(), &request)
	if err != nil {
		// unsupported sites still return what was found
		if errors.Is(err, domain.ErrUnsupportedSite) && record != nil {
			c.JSON(http.StatusOK, gin.H{
				"data":    record,
				"warning": "site not supported, only Open Graph metadata was used",
			})
			return
		}

		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("extraction failed",
				zap.String("url", request.URL),
				zap.String("request_id", c.GetString(requestIDKey)),
				zap.Error(err),
			)
		}
		c.JSON(status, domain.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

// statusFor maps usecase errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRetriesExhausted):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
