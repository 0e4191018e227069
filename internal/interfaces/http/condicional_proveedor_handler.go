package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/consignado-api/internal/application/condicional"
	"github.com/tu-usuario/consignado-api/internal/application/dto"
)

// CondicionalProveedorHandler maneja las condicionales de proveedor: creación
// todo-o-nada, recepciones, devoluciones parciales con tope y cierre.
type CondicionalProveedorHandler struct {
	creacionUC *condicional.CreacionUseCase
	uc         *condicional.ProveedorUseCase
}

// NewCondicionalProveedorHandler construye el handler.
func NewCondicionalProveedorHandler(creacionUC *condicional.CreacionUseCase, uc *condicional.ProveedorUseCase) *CondicionalProveedorHandler {
	return &CondicionalProveedorHandler{creacionUC: creacionUC, uc: uc}
}

// Create godoc
// @Summary      Crear condicional de proveedor con sus recepciones iniciales (todo-o-nada)
// @Tags         condicionales-proveedor
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearCondicionalProveedorRequest  true  "Proveedor, tope de devolución y recepciones"
// @Success      201   {object}  dto.CondicionalProveedorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/condicionales/proveedores [post]
func (h *CondicionalProveedorHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearCondicionalProveedorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProveedorID == "" || len(in.Productos) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "proveedor_id y productos son requeridos"})
	}
	cond, err := h.creacionUC.CrearCondicionalProveedor(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Obtener(c.Context(), cond.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar condicionales de proveedor
// @Tags         condicionales-proveedor
// @Security     Bearer
// @Produce      json
// @Param        abiertas  query  bool  false  "Solo abiertas"  default(false)
// @Success      200       {array}  dto.CondicionalProveedorResponse
// @Router       /api/condicionales/proveedores [get]
func (h *CondicionalProveedorHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.Listar(c.Context(), c.QueryBool("abiertas"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener condicional de proveedor por ID
// @Tags         condicionales-proveedor
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la condicional"
// @Success      200  {object}  dto.CondicionalProveedorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/condicionales/proveedores/{id} [get]
func (h *CondicionalProveedorHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Obtener(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Recibir godoc
// @Summary      Recibir stock consignado: crea un lote reservado para la condicional
// @Tags         condicionales-proveedor
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la condicional"
// @Param        body  body  dto.LineaProductoRequest  true  "Producto y cantidad recibida"
// @Success      200   {object}  dto.CondicionalProveedorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/condicionales/proveedores/{id}/recibir [post]
func (h *CondicionalProveedorHandler) Recibir(c *fiber.Ctx) error {
	var in dto.LineaProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto_id es requerido"})
	}
	if err := h.uc.RecibirProducto(c.Context(), c.Params("id"), in.ProductoID, in.Cantidad); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Obtener(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Devolver godoc
// @Summary      Devolver unidades al proveedor (respeta el tope acumulado)
// @Tags         condicionales-proveedor
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la condicional"
// @Param        body  body  dto.DevolverUnidadesRequest true  "Producto y cantidad a devolver"
// @Success      200   {object}  dto.DevolucionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/condicionales/proveedores/{id}/devolver [post]
func (h *CondicionalProveedorHandler) Devolver(c *fiber.Ctx) error {
	var in dto.DevolverUnidadesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto_id es requerido"})
	}
	out, err := h.uc.DevolverUnidades(c.Context(), c.Params("id"), in.ProductoID, in.Cantidad)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cerrar godoc
// @Summary      Cerrar la condicional: lo listado sale devuelto, el resto pasa a stock libre
// @Tags         condicionales-proveedor
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la condicional"
// @Param        body  body  dto.CerrarCondicionalRequest true  "Productos confirmados devueltos"
// @Success      200   {object}  dto.CondicionalProveedorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/condicionales/proveedores/{id}/cerrar [post]
func (h *CondicionalProveedorHandler) Cerrar(c *fiber.Ctx) error {
	var in dto.CerrarCondicionalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Cerrar(c.Context(), c.Params("id"), in.ProductosDevueltos); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Obtener(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EstadoDevolucion godoc
// @Summary      Consultar cuánto se devolvió y cuánto queda devolvible
// @Tags         condicionales-proveedor
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la condicional"
// @Success      200  {object}  dto.EstadoDevolucionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/condicionales/proveedores/{id}/estado-devolucion [get]
func (h *CondicionalProveedorHandler) EstadoDevolucion(c *fiber.Ctx) error {
	out, err := h.uc.EstadoDevolucion(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
