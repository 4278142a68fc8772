package api

import (
	"net/http"
	"regexp"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/maxmsylvain/Vanish/config"
	_ "github.com/maxmsylvain/Vanish/docs"
	"github.com/maxmsylvain/Vanish/internal/api/handler"
	"github.com/maxmsylvain/Vanish/internal/api/middleware"
	"github.com/maxmsylvain/Vanish/internal/service"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
	}
}

// NewRouter builds the HTTP surface. All dependencies arrive as
// parameters; nothing here reaches for globals.
func NewRouter(cfg *config.Config, h *handler.Handler, auth service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(otelgin.Middleware("vanish"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
		}

		posts := v1.Group("/posts")
		{
			posts.GET("", h.ListPosts)
			posts.GET("/:id/replies", h.ListReplies)
			posts.GET("/:id/remaining", h.Remaining)
			posts.POST("", middleware.RequireAuth(auth), middleware.RateLimit(cfg.Posts.RatePerMin), h.CreatePost)
			posts.DELETE("/:id", middleware.RequireAuth(auth), h.DeletePost)
		}

		v1.GET("/feed", middleware.RequireAuth(auth), h.Feed)
		v1.GET("/search", h.Search)

		users := v1.Group("/users")
		{
			users.GET("/:username", h.Profile)
			users.GET("/:username/stats", middleware.OptionalAuth(auth), h.RelationStats)
			users.PUT("/me", middleware.RequireAuth(auth), h.UpdateProfile)
		}

		rels := v1.Group("/relations", middleware.RequireAuth(auth))
		{
			rels.POST("/follow", h.Follow)
			rels.POST("/unfollow", h.Unfollow)
		}
	}

	return r
}
