package api

import (
	"errors"
	"net/http"

	reqdto "pricing-engine/internal/handler/dto/request"
	resdto "pricing-engine/internal/handler/dto/response"
	"pricing-engine/internal/handler/httperr"
	"pricing-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	q queries.PricingQueries
}

func NewQuoteHandler(q queries.PricingQueries) *QuoteHandler {
	return &QuoteHandler{q: q}
}

// @Summary Price quote
// @Description Calculate the final price for a product context
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.QuoteRequest true "Quote request"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /pricing/quote [post]
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.q.Quote(c.Request.Context(), req.ToContext(), req.TaxPercent)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Quote failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuoteView(view))
}

// @Summary Test pricing rule
// @Description Dry-run a single rule against a product context
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Param request body reqdto.RuleTestRequest true "Rule test request"
// @Success 200 {object} resdto.RuleTestResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pricing/rules/{id}/test [post]
func (h *QuoteHandler) TestRule(c *gin.Context) {
	id, err := parseRuleID(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.RuleTestRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}
	view, err := h.q.TestRule(c.Request.Context(), id, req.ToContext())
	if err != nil {
		if errors.Is(err, queries.ErrQuoteRuleNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Rule test failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRuleTestView(view))
}
