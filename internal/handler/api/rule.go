package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "pricing-engine/internal/handler/dto/request"
	resdto "pricing-engine/internal/handler/dto/response"
	"pricing-engine/internal/handler/httperr"
	"pricing-engine/internal/usecase/commands"
	"pricing-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type RuleHandler struct {
	cmds commands.RuleCommands
	q    queries.RuleQueries
}

func NewRuleHandler(cmds commands.RuleCommands, q queries.RuleQueries) *RuleHandler {
	return &RuleHandler{cmds: cmds, q: q}
}

// @Summary Create pricing rule
// @Description Create a new pricing rule
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RuleRequest true "Create rule request"
// @Success 201 {object} resdto.RuleResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /pricing/rules [post]
func (h *RuleHandler) Create(c *gin.Context) {
	var req reqdto.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.CreateRule(c.Request.Context(), req.ToParams())
	if err != nil {
		abortRuleCommandError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromRuleView(view))
}

// @Summary Get pricing rule
// @Description Get a pricing rule by ID
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Success 200 {object} resdto.RuleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pricing/rules/{id} [get]
func (h *RuleHandler) Get(c *gin.Context) {
	id, err := parseRuleID(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRuleView(view))
}

// @Summary List pricing rules
// @Description List pricing rules with optional filters
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param active_only query bool false "Only active rules"
// @Param target_group query string false "Filter by target group"
// @Success 200 {array} resdto.RuleListItemResponse
// @Failure 500 {object} map[string]string
// @Router /pricing/rules [get]
func (h *RuleHandler) List(c *gin.Context) {
	filter := queries.RuleFilter{}
	if v := c.Query("active_only"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.ActiveOnly = b
		}
	}
	if v := c.Query("target_group"); v != "" {
		filter.TargetGroup = &v
	}
	items, err := h.q.List(c.Request.Context(), filter)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": resdto.FromRuleList(items)})
}

// @Summary Update pricing rule
// @Description Replace a pricing rule by ID
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Param request body reqdto.RuleRequest true "Update rule request"
// @Success 200 {object} resdto.RuleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /pricing/rules/{id} [put]
func (h *RuleHandler) Update(c *gin.Context) {
	id, err := parseRuleID(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.RuleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}
	view, err := h.cmds.UpdateRule(c.Request.Context(), id, req.ToParams())
	if err != nil {
		abortRuleCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRuleView(view))
}

// @Summary Delete pricing rule
// @Description Delete a pricing rule by ID
// @Tags rules
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pricing/rules/{id} [delete]
func (h *RuleHandler) Delete(c *gin.Context) {
	id, err := parseRuleID(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	if err := h.cmds.DeleteRule(c.Request.Context(), id); err != nil {
		abortRuleCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseRuleID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func abortRuleCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidRule):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid rule", nil)
	case errors.Is(err, commands.ErrRuleNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	case errors.Is(err, commands.ErrDuplicateRuleName):
		httperr.AbortWithError(c, http.StatusConflict, err, "Rule name already exists", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
	}
}
