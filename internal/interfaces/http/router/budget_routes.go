package router

import (
	"github.com/gin-gonic/gin"
	"github.com/procurement/budget/internal/interfaces/http/handler"
)

// BudgetRoutes builds the /budget group: financial sources and rules
func BudgetRoutes(fs *handler.FSHandler, rules *handler.RulesHandler) *DomainGroup {
	group := NewDomainGroup("budget", "/budget")
	group.POST("/fs", fs.Create)
	group.PUT("/fs/:ocid", fs.Update)
	group.GET("/rules", rules.Get)
	return group
}

// RegisterHealth mounts GET /health outside the versioned API prefix
func RegisterHealth(engine *gin.Engine, health *handler.HealthHandler) {
	engine.GET("/health", health.Check)
}
