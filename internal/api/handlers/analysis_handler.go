package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/stocklens/reorder/internal/domain"
	"github.com/stocklens/reorder/internal/service"
)

type AnalysisHandler struct {
	service *service.AnalysisService
}

func NewAnalysisHandler(service *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// GetProducts returns the product picker rows.
func (h *AnalysisHandler) GetProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetAnalysis runs the reorder-point analysis for one product.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMonthlyDemand returns the monthly sales history behind the chart.
func (h *AnalysisHandler) GetMonthlyDemand(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	demand, err := h.service.MonthlyDemandHistory(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": productID, "monthly_demand": demand})
}

func parseProductID(c *gin.Context) (int64, bool) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return productID, true
}

// respondError maps the error taxonomy onto HTTP statuses: unknown products
// are 404, analyses that cannot be computed are 422 with the reason spelled
// out, upstream store failures are 502.
func (h *AnalysisHandler) respondError(c *gin.Context, err error) {
	var insufficient *domain.InsufficientHistoryError
	var dataErr *domain.DataAccessError

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "insufficient history",
			"reason": insufficient.Reason,
		})
	case errors.As(err, &dataErr):
		log.Error().Err(err).Str("op", dataErr.Op).Msg("data access failure")
		c.JSON(http.StatusBadGateway, gin.H{"error": "data access failure"})
	default:
		log.Error().Err(err).Msg("unexpected analysis error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
