package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/consignado-api/internal/application/auth"
	"github.com/tu-usuario/consignado-api/internal/application/condicional"
	"github.com/tu-usuario/consignado-api/internal/application/usecase"
	"github.com/tu-usuario/consignado-api/internal/application/venta"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ProductoUC      *usecase.ProductoUseCase
	ClienteUC       *usecase.ClienteUseCase
	TagUC           *usecase.TagUseCase
	CreacionUC      *condicional.CreacionUseCase
	CondClienteUC   *condicional.ClienteUseCase
	CondProveedorUC *condicional.ProveedorUseCase
	VentaUC         *venta.UseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Productos (protegido; alta/baja solo admin)
	productos := protected.Group("/productos")
	productoHandler := NewProductoHandler(deps.ProductoUC)
	ventaHandler := NewVentaHandler(deps.VentaUC)
	productos.Post("/", RequireRole(entity.RolAdmin), productoHandler.Create)
	productos.Get("/", productoHandler.List)
	productos.Get("/:id", productoHandler.GetByID)
	productos.Get("/:id/stock", ventaHandler.Stock)
	productos.Put("/:id", productoHandler.Update)
	productos.Delete("/:id", RequireRole(entity.RolAdmin), productoHandler.Delete)

	// Clientes (protegido)
	clientes := protected.Group("/clientes")
	clienteHandler := NewClienteHandler(deps.ClienteUC)
	clientes.Post("/", clienteHandler.Create)
	clientes.Get("/", clienteHandler.List)
	clientes.Get("/:id", clienteHandler.GetByID)
	clientes.Put("/:id", clienteHandler.Update)
	clientes.Delete("/:id", RequireRole(entity.RolAdmin), clienteHandler.Delete)

	// Tags (protegido)
	tags := protected.Group("/tags")
	tagHandler := NewTagHandler(deps.TagUC)
	tags.Post("/", tagHandler.Create)
	tags.Get("/", tagHandler.List)
	tags.Delete("/:id", RequireRole(entity.RolAdmin), tagHandler.Delete)

	// Condicionales de cliente (protegido)
	condClientes := protected.Group("/condicionales/clientes")
	condClienteHandler := NewCondicionalClienteHandler(deps.CreacionUC, deps.CondClienteUC)
	condClientes.Post("/", condClienteHandler.Create)
	condClientes.Get("/", condClienteHandler.List)
	condClientes.Get("/:id", condClienteHandler.GetByID)
	condClientes.Post("/:id/enviar", condClienteHandler.Enviar)
	condClientes.Post("/:id/retorno/calcular", condClienteHandler.CalcularRetorno)
	condClientes.Post("/:id/retorno", condClienteHandler.ProcesarRetorno)

	// Condicionales de proveedor (protegido)
	condProveedores := protected.Group("/condicionales/proveedores")
	condProveedorHandler := NewCondicionalProveedorHandler(deps.CreacionUC, deps.CondProveedorUC)
	condProveedores.Post("/", condProveedorHandler.Create)
	condProveedores.Get("/", condProveedorHandler.List)
	condProveedores.Get("/:id", condProveedorHandler.GetByID)
	condProveedores.Post("/:id/recibir", condProveedorHandler.Recibir)
	condProveedores.Post("/:id/devolver", condProveedorHandler.Devolver)
	condProveedores.Post("/:id/cerrar", condProveedorHandler.Cerrar)
	condProveedores.Get("/:id/estado-devolucion", condProveedorHandler.EstadoDevolucion)

	// Ventas y ledger de salidas (protegido)
	ventas := protected.Group("/ventas")
	ventas.Post("/", ventaHandler.Procesar)
	ventas.Post("/batch", ventaHandler.ProcesarBatch)
	protected.Post("/mermas", ventaHandler.Merma)
	protected.Get("/salidas", ventaHandler.ListarSalidas)
}
