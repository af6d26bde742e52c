package route

import (
	"net/http"
	"time"

	"workcafe/auth"
	"workcafe/config"
	"workcafe/controller"
	"workcafe/mail"
	"workcafe/metrics"
	"workcafe/repository"
	"workcafe/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config  *config.Config
	DB      *gorm.DB
	Mailer  mail.Sender
	Metrics *metrics.Metrics
}

// Setup builds the engine with its middleware chain and every route.
func Setup(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	router := gin.New()
	router.Use(gin.CustomRecoveryWithWriter(utils.Log.Writer(), func(c *gin.Context, err any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Unexpected error occurred",
		})
	}))
	router.Use(deps.Metrics.Middleware())
	router.Use(utils.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	renderer := controller.Renderer{}
	if cfg.TemplateGlob != "" {
		router.LoadHTMLGlob(cfg.TemplateGlob)
		renderer.HTML = true
	}

	cafes := repository.NewCafeRepository(deps.DB)
	users := repository.NewUserRepository(deps.DB)
	sessions := auth.NewSessionManager(users, auth.SessionOptions{
		Secret:     cfg.SecretKey,
		CookieName: cfg.SessionCookie,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.SessionSecure,
	})
	router.Use(sessions.Middleware())

	CafeRoutes(router,
		&controller.CafeController{Renderer: renderer, Cafes: cafes, Metrics: deps.Metrics},
		&controller.RequestController{
			Renderer:  renderer,
			Notifier:  mail.NewCafeRequestNotifier(deps.Mailer),
			Recipient: cfg.MailTo,
			Metrics:   deps.Metrics,
		},
		&controller.SheetController{Cafes: cafes, Metrics: deps.Metrics},
	)
	AuthRoutes(router, &controller.AuthController{
		Renderer: renderer,
		Users:    users,
		Sessions: sessions,
		Hasher:   auth.NewHasher(cfg.PasswordRounds),
	})

	health := &controller.HealthController{DB: deps.DB}
	router.GET("/healthz", health.Health)
	router.GET("/metrics", deps.Metrics.Handler())

	return router
}

func CafeRoutes(router *gin.Engine, cafes *controller.CafeController, requests *controller.RequestController, sheets *controller.SheetController) {
	router.GET("/", cafes.Home)
	router.GET("/view-cafe/:id", cafes.ViewCafe)
	router.Match([]string{http.MethodGet, http.MethodPost}, "/req-cafe", requests.RequestCafe)

	admin := router.Group("/")
	admin.Use(utils.AdminRequired())
	{
		admin.Match([]string{http.MethodGet, http.MethodPost}, "/add-cafe", cafes.AddCafe)
		admin.Match([]string{http.MethodGet, http.MethodPost}, "/edit-cafe/:id", cafes.EditCafe)
		admin.GET("/delete-cafe/:id", cafes.DeleteCafe)
		admin.POST("/import-cafes", sheets.ImportCafes)
		admin.GET("/export-cafes", sheets.ExportCafes)
	}
}

func AuthRoutes(router *gin.Engine, h *controller.AuthController) {
	router.Match([]string{http.MethodGet, http.MethodPost}, "/register", h.Register)
	router.Match([]string{http.MethodGet, http.MethodPost}, "/login", h.Login)
	router.GET("/logout", utils.LoginRequired(), h.Logout)
}

func corsConfig(allowedOrigins string) cors.Config {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = append(origins, allowedOrigins)
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
