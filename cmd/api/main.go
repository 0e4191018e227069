package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/consignado-api/internal/application/auth"
	"github.com/tu-usuario/consignado-api/internal/application/condicional"
	"github.com/tu-usuario/consignado-api/internal/application/usecase"
	"github.com/tu-usuario/consignado-api/internal/application/venta"
	"github.com/tu-usuario/consignado-api/internal/infrastructure/cache"
	"github.com/tu-usuario/consignado-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/consignado-api/internal/interfaces/http"
	"github.com/tu-usuario/consignado-api/pkg/config"
	"github.com/tu-usuario/consignado-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	usuarioRepo := postgres.NewUsuarioRepository(pool)
	productoRepo := postgres.NewProductoRepository(pool)
	clienteRepo := postgres.NewClienteRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)
	condClienteRepo := postgres.NewCondicionalClienteRepository(pool)
	condProveedorRepo := postgres.NewCondicionalProveedorRepository(pool)
	salidaRepo := postgres.NewSalidaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache Redis opcional: REDIS_ADDR vacío desactiva la cache de stock.
	var stockCache venta.Cache
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		stockCache = redisClient
		log.Info().Str("addr", cfg.Redis.Addr).Msg("cache de stock habilitada")
	}

	authUC := auth.NewAuthUseCase(usuarioRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productoUC := usecase.NewProductoUseCase(productoRepo, condClienteRepo, condProveedorRepo)
	clienteUC := usecase.NewClienteUseCase(clienteRepo, condClienteRepo)
	tagUC := usecase.NewTagUseCase(tagRepo)
	condClienteUC := condicional.NewClienteUseCase(productoRepo, condClienteRepo, condProveedorRepo, salidaRepo, log.Componente("condicional_cliente"))
	condProveedorUC := condicional.NewProveedorUseCase(productoRepo, condProveedorRepo, condClienteRepo, salidaRepo, log.Componente("condicional_proveedor"))
	creacionUC := condicional.NewCreacionUseCase(txRunner, productoRepo, condClienteRepo, condProveedorRepo, condClienteUC, condProveedorUC, log.Componente("condicional_creacion"))
	ventaUC := venta.NewUseCase(productoRepo, clienteRepo, salidaRepo, stockCache, log.Componente("venta"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Consignado API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		ProductoUC:      productoUC,
		ClienteUC:       clienteUC,
		TagUC:           tagUC,
		CreacionUC:      creacionUC,
		CondClienteUC:   condClienteUC,
		CondProveedorUC: condProveedorUC,
		VentaUC:         ventaUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
