package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/consignado-api/internal/application/condicional"
	"github.com/tu-usuario/consignado-api/internal/application/dto"
)

// CondicionalClienteHandler maneja las condicionales de cliente: creación
// todo-o-nada, envíos, cálculo de retorno y retorno.
type CondicionalClienteHandler struct {
	creacionUC *condicional.CreacionUseCase
	uc         *condicional.ClienteUseCase
}

// NewCondicionalClienteHandler construye el handler.
func NewCondicionalClienteHandler(creacionUC *condicional.CreacionUseCase, uc *condicional.ClienteUseCase) *CondicionalClienteHandler {
	return &CondicionalClienteHandler{creacionUC: creacionUC, uc: uc}
}

// Create godoc
// @Summary      Crear condicional de cliente con sus envíos iniciales (todo-o-nada)
// @Tags         condicionales-cliente
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearCondicionalClienteRequest  true  "Cliente y líneas de envío"
// @Success      201   {object}  dto.CondicionalClienteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/condicionales/clientes [post]
func (h *CondicionalClienteHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearCondicionalClienteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ClienteID == "" || len(in.Productos) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cliente_id y productos son requeridos"})
	}
	cond, err := h.creacionUC.CrearCondicionalCliente(c.Context(), in)
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
// @Summary      Listar condicionales de cliente
// @Tags         condicionales-cliente
// @Security     Bearer
// @Produce      json
// @Param        activas  query  bool  false  "Solo activas"  default(false)
// @Success      200      {array}  dto.CondicionalClienteResponse
// @Router       /api/condicionales/clientes [get]
func (h *CondicionalClienteHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.Listar(c.Context(), c.QueryBool("activas"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener condicional de cliente por ID
// @Tags         condicionales-cliente
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la condicional"
// @Success      200  {object}  dto.CondicionalClienteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/condicionales/clientes/{id} [get]
func (h *CondicionalClienteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Obtener(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Enviar godoc
// @Summary      Enviar producto a una condicional activa (reserva FIFO)
// @Tags         condicionales-cliente
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la condicional"
// @Param        body  body  dto.LineaProductoRequest  true  "Producto y cantidad"
// @Success      200   {object}  dto.CondicionalClienteResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/condicionales/clientes/{id}/enviar [post]
func (h *CondicionalClienteHandler) Enviar(c *fiber.Ctx) error {
	var in dto.LineaProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto_id es requerido"})
	}
	if err := h.uc.EnviarProducto(c.Context(), c.Params("id"), in.ProductoID, in.Cantidad); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Obtener(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CalcularRetorno godoc
// @Summary      Calcular el retorno (puro, sin mutaciones): devuelto vs vendido por línea
// @Tags         condicionales-cliente
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la condicional"
// @Param        body  body  dto.RetornoRequest  true  "Códigos externos de las piezas devueltas"
// @Success      200   {object}  dto.RetornoCalculadoResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/condicionales/clientes/{id}/retorno/calcular [post]
func (h *CondicionalClienteHandler) CalcularRetorno(c *fiber.Ctx) error {
	var in dto.RetornoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CalcularRetorno(c.Context(), c.Params("id"), in.CodigosDevueltos)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ProcesarRetorno godoc
// @Summary      Procesar el retorno: libera devueltas, vende el resto y cierra la condicional
// @Tags         condicionales-cliente
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la condicional"
// @Param        body  body  dto.RetornoRequest  true  "Códigos devueltos y desglose opcional de ventas"
// @Success      200   {object}  dto.RetornoProcesadoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/condicionales/clientes/{id}/retorno [post]
func (h *CondicionalClienteHandler) ProcesarRetorno(c *fiber.Ctx) error {
	var in dto.RetornoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ProcesarRetorno(c.Context(), c.Params("id"), in.CodigosDevueltos, in.Desglose)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
