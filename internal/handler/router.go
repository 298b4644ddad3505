package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"pricing-engine/internal/domain/admin"
	"pricing-engine/internal/handler/api"
	"pricing-engine/internal/handler/middleware"
	"pricing-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, ruleHandler *api.RuleHandler, quoteHandler *api.QuoteHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, ruleHandler, quoteHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, ruleHandler *api.RuleHandler, quoteHandler *api.QuoteHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		pricing := apiGroup.Group("/pricing")
		pricing.Use(authMiddleware.RequireAuth())
		{
			addRoutes(pricing, []route{
				{Method: http.MethodPost, Path: "/quote", Handler: quoteHandler.Quote,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(admin.RoleOperator)}},
			})

			rules := pricing.Group("/rules")
			{
				addRoutes(rules, []route{
					{Method: http.MethodGet, Path: "", Handler: ruleHandler.List},
					{Method: http.MethodGet, Path: "/:id", Handler: ruleHandler.Get},
					{Method: http.MethodPost, Path: "/:id/test", Handler: quoteHandler.TestRule,
						Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(admin.RoleOperator)}},
					{Method: http.MethodPost, Path: "", Handler: ruleHandler.Create,
						Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(admin.RoleAdmin)}},
					{Method: http.MethodPut, Path: "/:id", Handler: ruleHandler.Update,
						Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(admin.RoleAdmin)}},
					{Method: http.MethodDelete, Path: "/:id", Handler: ruleHandler.Delete,
						Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(admin.RoleAdmin)}},
				})
			}
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
