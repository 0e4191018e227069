package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/consignado-api/internal/application/dto"
	"github.com/tu-usuario/consignado-api/internal/application/venta"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
)

// VentaHandler maneja ventas directas, consulta de stock y el ledger de
// salidas.
type VentaHandler struct {
	uc *venta.UseCase
}

// NewVentaHandler construye el handler.
func NewVentaHandler(uc *venta.UseCase) *VentaHandler {
	return &VentaHandler{uc: uc}
}

// Procesar godoc
// @Summary      Vender unidades de un producto (FIFO sobre stock vendible)
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VentaRequest  true  "Producto, cantidad y cliente opcional"
// @Success      201   {object}  dto.VentaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *VentaHandler) Procesar(c *fiber.Ctx) error {
	var in dto.VentaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto_id es requerido"})
	}
	out, err := h.uc.Procesar(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ProcesarBatch godoc
// @Summary      Vender varios productos (ítems independientes, no transaccional)
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.VentaRequest  true  "Ventas a procesar"
// @Success      200   {array}  dto.VentaResultado
// @Router       /api/ventas/batch [post]
func (h *VentaHandler) ProcesarBatch(c *fiber.Ctx) error {
	var in []dto.VentaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "al menos una venta es requerida"})
	}
	return c.JSON(h.uc.ProcesarBatch(c.Context(), in))
}

// Merma godoc
// @Summary      Dar de baja unidades por pérdida o donación (sin venta)
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MermaRequest  true  "Producto, cantidad y tipo (perdida | donacion)"
// @Success      201   {object}  dto.MermaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/mermas [post]
func (h *VentaHandler) Merma(c *fiber.Ctx) error {
	var in dto.MermaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto_id es requerido"})
	}
	out, err := h.uc.RegistrarMerma(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Stock godoc
// @Summary      Consultar stock total y vendible de un producto (cache read-through)
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/stock [get]
func (h *VentaHandler) Stock(c *fiber.Ctx) error {
	out, err := h.uc.StockDisponible(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListarSalidas godoc
// @Summary      Listar el ledger de salidas con filtros
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        tipo         query  string  false  "venta | devolucion_proveedor | condicional_proveedor"
// @Param        producto_id  query  string  false  "Filtrar por producto"
// @Param        cliente_id   query  string  false  "Filtrar por cliente"
// @Param        desde        query  string  false  "Fecha mínima (RFC3339)"
// @Param        hasta        query  string  false  "Fecha máxima (RFC3339)"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.SalidaResponse
// @Router       /api/salidas [get]
func (h *VentaHandler) ListarSalidas(c *fiber.Ctx) error {
	filtro := repository.SalidaFiltro{
		Tipo:       c.Query("tipo"),
		ProductoID: c.Query("producto_id"),
		ClienteID:  c.Query("cliente_id"),
		Limit:      c.QueryInt("limit", 20),
		Offset:     c.QueryInt("offset", 0),
	}
	if filtro.Limit <= 0 || filtro.Limit > 100 {
		filtro.Limit = 20
	}
	if filtro.Offset < 0 {
		filtro.Offset = 0
	}
	if s := c.Query("desde"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde debe ser RFC3339"})
		}
		filtro.Desde = &t
	}
	if s := c.Query("hasta"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta debe ser RFC3339"})
		}
		filtro.Hasta = &t
	}
	out, err := h.uc.ListarSalidas(c.Context(), filtro)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
