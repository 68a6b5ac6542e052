package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	appbudget "github.com/procurement/budget/internal/application/budget"
)

// RuleReader looks up a single budget rule
type RuleReader interface {
	GetRule(ctx context.Context, country, parameter string) (*appbudget.RuleResponse, error)
}

// RulesHandler handles budget rule lookups
type RulesHandler struct {
	BaseHandler
	rules RuleReader
}

// NewRulesHandler creates a new RulesHandler
func NewRulesHandler(rules RuleReader) *RulesHandler {
	return &RulesHandler{rules: rules}
}

// Get handles GET /budget/rules?country=&parameter=
func (h *RulesHandler) Get(c *gin.Context) {
	country, err := requireQuery(c, "country")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	parameter, err := requireQuery(c, "parameter")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.rules.GetRule(c.Request.Context(), country, parameter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
