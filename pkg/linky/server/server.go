package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mikepea/linky/pkg/linky/cache"
	"github.com/mikepea/linky/pkg/linky/config"
	"github.com/mikepea/linky/pkg/linky/importexport"
	"github.com/mikepea/linky/pkg/linky/links"
	"github.com/mikepea/linky/pkg/linky/logging"
	"github.com/mikepea/linky/pkg/linky/metrics"
	"github.com/mikepea/linky/pkg/linky/store"
	"github.com/mikepea/linky/pkg/linky/votes"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mikepea/linky/api/swagger"
)

// New builds the gin engine with middleware and every route registered
func New(cfg *config.Config, s *store.Store, linkCache *cache.Cache) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(cors.New(corsConfig(cfg)))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/metrics", metrics.Handler())

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"service": "linky",
			})
		})

		links.NewHandler(s, linkCache).RegisterRoutes(api)
		votes.NewHandler(s, linkCache).RegisterRoutes(api)
		importexport.NewHandler(s, linkCache).RegisterRoutes(api)
	}

	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cc.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	origins := cfg.Origins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}
