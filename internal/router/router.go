package router

import (
	"time"

	"comprasverdu/internal/config"
	"comprasverdu/internal/elabastecedor"
	"comprasverdu/internal/handler"
	"comprasverdu/internal/middleware"
	"comprasverdu/internal/repository"
	"comprasverdu/internal/service"
	"comprasverdu/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository/Gateway ← DB/Redis/MSSQL
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, gw *elabastecedor.Gateway) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	articuloRepo := repository.NewArticuloRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	recepcionRepo := repository.NewRecepcionRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	listadoSvc := service.NewListadoService(articuloRepo, gw, dispatcher)
	compraSvc := service.NewCompraService(compraRepo, proveedorRepo)
	recepcionSvc := service.NewRecepcionService(recepcionRepo, compraRepo)
	infoFinalSvc := service.NewInfoFinalService(compraRepo, recepcionRepo, gw)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(listadoSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	recepcionesH := handler.NewRecepcionesHandler(recepcionSvc)
	infoFinalH := handler.NewInfoFinalHandler(infoFinalSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, gw))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: comprador, supervisor, administrador — declared per-endpoint
		lectura := middleware.RequireRole("comprador", "supervisor", "administrador")

		v1.GET("/productos", lectura, productosH.Listar)
		v1.GET("/proveedores", lectura, productosH.Proveedores)
		v1.GET("/proveedores/:codigo/articulos", lectura, productosH.ArticulosDeProveedor)
		v1.GET("/departamentos/:id/articulos", lectura, productosH.ArticulosDeDepartamento)

		v1.POST("/compras", lectura, comprasH.Crear)
		v1.GET("/compras", lectura, comprasH.Listar)
		v1.GET("/compras/:id", lectura, comprasH.Obtener)
		v1.POST("/economia", lectura, comprasH.Economia)

		v1.POST("/compras/:id/recepcion", lectura, recepcionesH.Recibir)
		v1.GET("/compras/:id/recepcion", lectura, recepcionesH.ObtenerPorCompra)
		v1.PUT("/recepciones/:id/precios", lectura, recepcionesH.GuardarPrecios)

		// Reporte de cierre — supervisores para arriba
		v1.GET("/info-final", middleware.RequireRole("supervisor", "administrador"), infoFinalH.Articulos)

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	return r
}
