package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/internal/models"
	mwauth "github.com/Skotchmaster/shop_admin/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/shop_admin/internal/middleware/logging"
)

type Deps struct {
	DB       *gorm.DB
	Auth     *AuthHTTP
	Users    *UsersHTTP
	Products *ProductsHTTP
	Settings *SettingsHTTP
	Upload   *UploadHTTP
}

// NewEcho builds the server with the shared middleware stack. An empty origins
// list rejects every cross origin request.
func NewEcho(logger *slog.Logger, origins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	cors := middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}
	if len(origins) == 0 {
		cors.AllowOriginFunc = func(string) (bool, error) { return false, nil }
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(cors))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	health := &HealthHTTP{DB: d.DB}
	e.GET("/health/live", health.Live)
	e.GET("/health/ready", health.Ready)

	bearer := mwauth.Bearer(d.Auth.Svc)
	admin := mwauth.RequireRole(models.RoleAdmin)

	auth := e.Group("/auth")
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.LogOut)
	auth.GET("/me", d.Auth.Me, bearer)

	users := e.Group("/users", bearer)
	users.GET("", d.Users.List)
	users.POST("", d.Users.Create, admin)
	users.DELETE("/:id", d.Users.Delete, admin)

	products := e.Group("/products")
	products.GET("", d.Products.List)
	products.GET("/search", d.Products.Search)
	products.GET("/:id", d.Products.Get)
	products.POST("", d.Products.Create, bearer, admin)
	products.PUT("/:id", d.Products.Update, bearer, admin)
	products.DELETE("/:id", d.Products.Delete, bearer, admin)

	cfg := e.Group("/config")
	cfg.GET("", d.Settings.GetConfig)
	cfg.PUT("", d.Settings.UpdateConfig, bearer, admin)
	cfg.GET("/maintenance", d.Settings.GetMaintenance)
	cfg.PUT("/maintenance", d.Settings.SetMaintenance, bearer, admin)

	cfg.GET("/categories", d.Settings.ListCategories)
	cfg.POST("/categories", d.Settings.CreateCategory, bearer, admin)
	cfg.PUT("/categories/:id", d.Settings.UpdateCategory, bearer, admin)
	cfg.DELETE("/categories/:id", d.Settings.DeleteCategory, bearer, admin)

	cfg.GET("/tags", d.Settings.ListTags)
	cfg.POST("/tags", d.Settings.CreateTag, bearer, admin)
	cfg.PUT("/tags/:id", d.Settings.UpdateTag, bearer, admin)
	cfg.DELETE("/tags/:id", d.Settings.DeleteTag, bearer, admin)

	// multipart overhead on top of the file limits
	e.POST("/upload", d.Upload.Image, middleware.BodyLimit("6M"), bearer, admin)
	e.POST("/upload-specs", d.Upload.Spec, middleware.BodyLimit("11M"), bearer, admin)
}
