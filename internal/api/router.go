package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/adminhub/admin-system/internal/api/handler"
	"github.com/adminhub/admin-system/internal/api/middleware"
	"github.com/adminhub/admin-system/internal/core/ports"
	"github.com/adminhub/admin-system/internal/core/service"
	"github.com/adminhub/admin-system/internal/infrastructure/config"
	gormdb "github.com/adminhub/admin-system/internal/infrastructure/db/gorm"
	redisdb "github.com/adminhub/admin-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	db *gorm.DB,
	rdb *goredis.Client,
	mdb *mongo.Database,
	auditRepo ports.AuditRepository,
	recorder ports.AuditRecorder,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("admin"))
	e.Use(newCSRFMiddleware(!cfg.IsDevelopment()))

	// --- Dependencies ---
	userRepo := gormdb.NewUserRepository(db)
	roleRepo := gormdb.NewRoleRepository(db)
	menuRepo := gormdb.NewMenuRepository(db)
	revocations := redisdb.NewRevocationList(rdb)

	tokenService := service.NewTokenService(service.TokenConfig{
		Secret:             cfg.JWT.Secret,
		Issuer:             cfg.JWT.Issuer,
		AccessTTL:          cfg.JWT.AccessTTL,
		RefreshTTL:         cfg.JWT.RefreshTTL,
		RememberAccessTTL:  cfg.JWT.RememberAccessTTL,
		RememberRefreshTTL: cfg.JWT.RememberRefreshTTL,
		RotateRefresh:      cfg.JWT.RotateRefresh,
	}, revocations, log)
	authService := service.NewAuthService(userRepo, tokenService, recorder, log)
	userService := service.NewUserService(userRepo, recorder, log)
	roleService := service.NewRoleService(roleRepo, userRepo, menuRepo, recorder, log)
	menuService := service.NewMenuService(menuRepo, roleRepo, userRepo, log)

	cookies := handler.NewCookieWriter(cfg.Cookie.Path, cfg.Cookie.Domain, !cfg.IsDevelopment())
	authHandler := handler.NewAuthHandler(authService, tokenService, cookies)
	userHandler := handler.NewUserHandler(userService, roleService)
	roleHandler := handler.NewRoleHandler(roleService)
	menuHandler := handler.NewMenuHandler(menuService)
	auditHandler := handler.NewAuditHandler(auditRepo)

	e.Use(middleware.Auth(authService))

	// Admission control on the abuse-prone endpoints only.
	limited := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if cfg.RateLimit.Enabled {
		limiter := redisdb.NewRateLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		limited = middleware.RateLimit(limiter, log)
	}

	// --- Session routes ---
	e.POST("/api/login", authHandler.Login, limited)
	e.POST("/api/logout", authHandler.Logout)
	e.POST("/api/token/refresh", authHandler.Refresh, limited)
	e.GET("/api/token/validity", authHandler.Validity)
	e.GET("/api/csrf", authHandler.CSRF, limited)
	e.POST("/api/signup", userHandler.Signup, limited)

	// --- Authenticated routes ---
	authed := e.Group("/api", middleware.RequireAuth)
	authed.GET("/user-info", userHandler.Me)
	authed.GET("/user-menus", menuHandler.UserMenus)
	authed.PUT("/users/:id", userHandler.UpdateProfile)
	authed.PUT("/users/:id/password", userHandler.ChangePassword)

	// --- Admin routes ---
	admin := e.Group("/api", middleware.RequireAdmin)
	admin.GET("/users", userHandler.List)
	admin.GET("/users/:id", userHandler.Get)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.POST("/users/:id/roles", userHandler.AssignRoles)

	admin.GET("/roles", roleHandler.List)
	admin.POST("/roles", roleHandler.Create)
	admin.GET("/roles/:id", roleHandler.Get)
	admin.PUT("/roles/:id", roleHandler.Update)
	admin.DELETE("/roles/:id", roleHandler.Delete)
	admin.POST("/roles/:id/status", roleHandler.ToggleStatus)
	admin.GET("/roles/:id/menus", roleHandler.Menus)
	admin.PUT("/roles/:id/menus", roleHandler.ReplaceMenus)

	admin.GET("/menus", menuHandler.Tree)
	admin.GET("/menus/enabled", menuHandler.EnabledTree)
	admin.POST("/menus", menuHandler.Create)
	admin.PUT("/menus/reorder", menuHandler.Reorder)
	admin.GET("/menus/:id", menuHandler.Get)
	admin.PUT("/menus/:id", menuHandler.Update)
	admin.DELETE("/menus/:id", menuHandler.Delete)

	admin.GET("/audit/logs", auditHandler.List)

	// --- Observability and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb, mdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// newCSRFMiddleware guards the cookie-authenticated mutation routes with a
// double-submit token. Safe methods receive the _csrf cookie; POST/PUT/DELETE
// must echo the token back in the X-CSRF-Token header.
func newCSRFMiddleware(secure bool) echo.MiddlewareFunc {
	cfg := echomiddleware.DefaultCSRFConfig
	cfg.CookiePath = "/"
	cfg.CookieSecure = secure
	cfg.CookieSameSite = http.SameSiteLaxMode
	return echomiddleware.CSRFWithConfig(cfg)
}
