package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrCantidadInvalida     = errors.New("cantidad inválida")
	ErrStockInsuficiente    = errors.New("stock insuficiente")
	ErrReservaInsuficiente  = errors.New("unidades sin reservar insuficientes en el lote")
	ErrCondicionalInactiva  = errors.New("la condicional ya no está activa")
	ErrLimiteDevolucion     = errors.New("límite de devolución excedido")
	ErrDesgloseVenta        = errors.New("el desglose de ventas no coincide con la cantidad vendida")
	ErrRollbackCritico      = errors.New("fallo crítico en rollback manual")
	ErrProductoConCondicion = errors.New("el producto está referenciado por una condicional activa")
)

// StockInsuficienteError lleva la cantidad disponible para que el caller
// pueda armar un mensaje accionable sin re-consultar estado.
type StockInsuficienteError struct {
	Disponible int
	Solicitado int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Disponible, e.Solicitado)
}

func (e *StockInsuficienteError) Unwrap() error { return ErrStockInsuficiente }

// LimiteDevolucionError lleva el límite configurado y lo ya devuelto.
type LimiteDevolucionError struct {
	Limite     int
	YaDevuelto int
	Solicitado int
}

func (e *LimiteDevolucionError) Error() string {
	return fmt.Sprintf("límite de devolución excedido: máximo %d, ya devuelto %d, solicitado %d",
		e.Limite, e.YaDevuelto, e.Solicitado)
}

func (e *LimiteDevolucionError) Unwrap() error { return ErrLimiteDevolucion }

// DesgloseVentaError indica que el desglose explícito de ventas no suma la
// cantidad vendida calculada para un producto.
type DesgloseVentaError struct {
	ProductoID string
	Esperado   int
	Recibido   int
}

func (e *DesgloseVentaError) Error() string {
	return fmt.Sprintf("desglose de ventas inválido para producto %s: esperado %d, recibido %d",
		e.ProductoID, e.Esperado, e.Recibido)
}

func (e *DesgloseVentaError) Unwrap() error { return ErrDesgloseVenta }

// RollbackCriticoError se emite cuando la compensación manual falló a mitad de
// camino: los productos listados requieren reconciliación manual del operador.
// Nunca se reintenta automáticamente ni se silencia.
type RollbackCriticoError struct {
	CondicionalID string
	Productos     []string
	Causa         error
}

func (e *RollbackCriticoError) Error() string {
	return fmt.Sprintf("rollback crítico en condicional %s: productos pendientes de reconciliación manual [%s]: %v",
		e.CondicionalID, strings.Join(e.Productos, ", "), e.Causa)
}

func (e *RollbackCriticoError) Unwrap() error { return ErrRollbackCritico }
