package router

import (
	"time"

	"asistencia/internal/config"
	"asistencia/internal/handler"
	"asistencia/internal/middleware"
	"asistencia/internal/model"
	"asistencia/internal/repository"
	"asistencia/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// notifier receives table names after every mirrored write; nil disables
// the spreadsheet sync.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, notifier service.SyncNotifier) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Rate limits key on ClientIP; only listed proxies may set X-Forwarded-For.
	if err := r.SetTrustedProxies(cfg.TrustedProxies()); err != nil {
		log.Error().Err(err).Msg("TRUSTED_PROXIES inválido, no se confía en ningún proxy")
		_ = r.SetTrustedProxies(nil)
	}
	window := time.Duration(cfg.RateLimitWindowMin) * time.Minute

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORSOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitMax, window))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	empleadoRepo := repository.NewEmpleadoRepository(db)
	asistenciaRepo := repository.NewAsistenciaRepository(db)
	puntoRepo := repository.NewPuntoRepository(db)
	configRepo := repository.NewConfigRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	empleadoSvc := service.NewEmpleadoService(empleadoRepo, notifier)
	asistenciaSvc := service.NewAsistenciaService(asistenciaRepo, notifier)
	puntoSvc := service.NewPuntoService(puntoRepo, notifier)
	configSvc := service.NewConfigService(configRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	empleadosH := handler.NewEmpleadosHandler(empleadoSvc)
	asistenciaH := handler.NewAsistenciaHandler(asistenciaSvc)
	configH := handler.NewConfigHandler(puntoSvc, configSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	health := handler.Health(db, rdb)
	r.GET("/health", health)

	api := r.Group("/api")
	api.GET("/health", health)

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RolAdmin, model.RolSuperAdmin)
	superAdmin := middleware.RequireRole(model.RolSuperAdmin)

	// Auth (public)
	api.POST("/auth/login", middleware.LoginRateLimiter(cfg.LoginRateLimitMax, window), authH.Login)

	// Kiosk reads and registration are public; edits need a session.
	emp := api.Group("/employees")
	{
		emp.GET("", empleadosH.Listar)
		emp.POST("", empleadosH.Crear)
		emp.PUT("/:dni", jwtMW, anyRole, empleadosH.Actualizar)
		emp.DELETE("/:dni", jwtMW, anyRole, empleadosH.Eliminar)
	}

	att := api.Group("/attendance")
	{
		att.GET("", asistenciaH.Listar)
		att.POST("", asistenciaH.Registrar)
	}

	cfgGroup := api.Group("/config")
	{
		cfgGroup.GET("/points", configH.ListarPuntos)
		cfgGroup.PUT("/points", jwtMW, superAdmin, configH.GuardarPuntos)
		cfgGroup.GET("/settings", jwtMW, superAdmin, configH.ObtenerSettings)
		cfgGroup.PUT("/settings", jwtMW, superAdmin, configH.GuardarSettings)
	}

	usuarios := api.Group("/users", jwtMW, superAdmin)
	{
		usuarios.GET("", usuariosH.Listar)
		usuarios.POST("", usuariosH.Crear)
		usuarios.PUT("/:id", usuariosH.Actualizar)
		usuarios.DELETE("/:id", usuariosH.Desactivar)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
