package lote_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/lote"
)

var (
	t0 = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	t1 = time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
)

func loteSimple(cantidad int, fecha time.Time) entity.Lote {
	return entity.Lote{Cantidad: cantidad, FechaAdquisicion: fecha}
}

// verificarCotaReservas valida el invariante: en ningún lote las reservas de
// un eje superan la cantidad del lote.
func verificarCotaReservas(t *testing.T, lotes []entity.Lote) {
	t.Helper()
	for i := range lotes {
		assert.LessOrEqual(t, lotes[i].Reservado(entity.EjeCliente), lotes[i].Cantidad,
			"reservas cliente no pueden exceder la cantidad del lote")
		assert.LessOrEqual(t, lotes[i].Reservado(entity.EjeProveedor), lotes[i].Cantidad,
			"reservas proveedor no pueden exceder la cantidad del lote")
	}
}

// ── Disponibilidad ────────────────────────────────────────────────────────────

func TestDisponible_ReservaProveedorNoBloqueaVenta(t *testing.T) {
	l := lote.NuevoLoteProveedor(4, "cf1", t0)
	lotes := []entity.Lote{l, loteSimple(6, t1)}

	// Vendible = total - reservado cliente; las unidades de proveedor cuentan.
	assert.Equal(t, 10, lote.Disponible(lotes, entity.EjeCliente))
	assert.Equal(t, 6, lote.Disponible(lotes, entity.EjeProveedor))
}

func TestDisponible_ReservaClienteBloqueaVenta(t *testing.T) {
	lotes := []entity.Lote{loteSimple(10, t0)}
	lotes, err := lote.ReservarFIFO(lotes, 7, entity.EjeCliente, "cc1")
	require.NoError(t, err)

	assert.Equal(t, 3, lote.Disponible(lotes, entity.EjeCliente))
	assert.Equal(t, 10, lote.StockTotal(lotes))
}

// ── ReservarFIFO ──────────────────────────────────────────────────────────────

// TestReservarFIFO_Determinismo: con lotes [3, 5, 2] de fechas crecientes,
// reservar 6 debe consumir todo el lote 1 (3), 3 unidades del lote 2 (quedan
// 2 libres en ese lote) y cero del lote 3.
func TestReservarFIFO_Determinismo(t *testing.T) {
	lotes := []entity.Lote{
		loteSimple(3, t0),
		loteSimple(5, t1),
		loteSimple(2, t2),
	}

	res, err := lote.ReservarFIFO(lotes, 6, entity.EjeCliente, "cc1")
	require.NoError(t, err)

	assert.Equal(t, 3, res[0].ReservadoPor(entity.EjeCliente, "cc1"))
	assert.Equal(t, 3, res[1].ReservadoPor(entity.EjeCliente, "cc1"))
	assert.Equal(t, 2, res[1].Libre(entity.EjeCliente))
	assert.Equal(t, 0, res[2].ReservadoPor(entity.EjeCliente, "cc1"))
	assert.Equal(t, 10, lote.StockTotal(res), "reservar no cambia el stock físico")
	verificarCotaReservas(t, res)
}

// TestReservarFIFO_EmpateFechasEstable: lotes con la misma fecha se consumen
// en el orden original de la lista (sort estable).
func TestReservarFIFO_EmpateFechasEstable(t *testing.T) {
	lotes := []entity.Lote{
		loteSimple(2, t1),
		loteSimple(2, t1),
		loteSimple(2, t1),
	}

	res, err := lote.ReservarFIFO(lotes, 3, entity.EjeCliente, "cc1")
	require.NoError(t, err)

	assert.Equal(t, 2, res[0].ReservadoPor(entity.EjeCliente, "cc1"))
	assert.Equal(t, 1, res[1].ReservadoPor(entity.EjeCliente, "cc1"))
	assert.Equal(t, 0, res[2].ReservadoPor(entity.EjeCliente, "cc1"))
}

func TestReservarFIFO_StockInsuficienteSinMutacion(t *testing.T) {
	lotes := []entity.Lote{loteSimple(2, t0)}

	_, err := lote.ReservarFIFO(lotes, 5, entity.EjeCliente, "cc1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)

	var stockErr *domain.StockInsuficienteError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Disponible, "el error debe llevar lo disponible")
	assert.Equal(t, 5, stockErr.Solicitado)

	// La lista original queda intacta.
	assert.Equal(t, 0, lotes[0].Reservado(entity.EjeCliente))
}

func TestReservarFIFO_CantidadCeroEsNoOp(t *testing.T) {
	lotes := []entity.Lote{loteSimple(2, t0)}
	res, err := lote.ReservarFIFO(lotes, 0, entity.EjeCliente, "cc1")
	require.NoError(t, err)
	assert.Equal(t, 0, res[0].Reservado(entity.EjeCliente))
}

func TestReservarFIFO_CantidadNegativaRechazada(t *testing.T) {
	lotes := []entity.Lote{loteSimple(2, t0)}
	_, err := lote.ReservarFIFO(lotes, -1, entity.EjeCliente, "cc1")
	assert.ErrorIs(t, err, domain.ErrCantidadInvalida)
}

// Una unidad puede llevar a la vez una reserva de cada eje: reservar para un
// cliente unidades que ya están en condicional de proveedor es válido.
func TestReservarFIFO_EjesIndependientes(t *testing.T) {
	lotes := []entity.Lote{lote.NuevoLoteProveedor(5, "cf1", t0)}

	res, err := lote.ReservarFIFO(lotes, 3, entity.EjeCliente, "cc1")
	require.NoError(t, err)

	assert.Equal(t, 3, res[0].ReservadoPor(entity.EjeCliente, "cc1"))
	assert.Equal(t, 5, res[0].ReservadoPor(entity.EjeProveedor, "cf1"))
	verificarCotaReservas(t, res)
}

// ── LiberarFIFO ───────────────────────────────────────────────────────────────

func TestLiberarFIFO_LiberaMasAntiguasPrimero(t *testing.T) {
	lotes := []entity.Lote{loteSimple(3, t0), loteSimple(3, t1)}
	lotes, err := lote.ReservarFIFO(lotes, 5, entity.EjeCliente, "cc1")
	require.NoError(t, err)

	res, liberadas, err := lote.LiberarFIFO(lotes, 4, entity.EjeCliente, "cc1")
	require.NoError(t, err)
	assert.Equal(t, 4, liberadas)
	assert.Equal(t, 0, res[0].ReservadoPor(entity.EjeCliente, "cc1"), "el lote más antiguo se libera primero")
	assert.Equal(t, 1, res[1].ReservadoPor(entity.EjeCliente, "cc1"))
}

// Liberar más de lo presente hace clamp: nunca un conteo negativo.
func TestLiberarFIFO_ClampSinNegativos(t *testing.T) {
	lotes := []entity.Lote{loteSimple(5, t0)}
	lotes, err := lote.ReservarFIFO(lotes, 2, entity.EjeCliente, "cc1")
	require.NoError(t, err)

	res, liberadas, err := lote.LiberarFIFO(lotes, 10, entity.EjeCliente, "cc1")
	require.NoError(t, err)
	assert.Equal(t, 2, liberadas)
	assert.Equal(t, 0, res[0].Reservado(entity.EjeCliente))
	verificarCotaReservas(t, res)
}

func TestLiberarFIFO_NoTocaOtrasCondicionales(t *testing.T) {
	lotes := []entity.Lote{loteSimple(6, t0)}
	lotes, err := lote.ReservarFIFO(lotes, 2, entity.EjeCliente, "cc1")
	require.NoError(t, err)
	lotes, err = lote.ReservarFIFO(lotes, 2, entity.EjeCliente, "cc2")
	require.NoError(t, err)

	res, liberadas, err := lote.LiberarFIFO(lotes, 5, entity.EjeCliente, "cc1")
	require.NoError(t, err)
	assert.Equal(t, 2, liberadas)
	assert.Equal(t, 2, res[0].ReservadoPor(entity.EjeCliente, "cc2"))
}

// ── ConsumirVentaFIFO ─────────────────────────────────────────────────────────

func TestConsumirVentaFIFO_RemueveLotesEnCero(t *testing.T) {
	lotes := []entity.Lote{loteSimple(3, t0), loteSimple(5, t1)}

	res, err := lote.ConsumirVentaFIFO(lotes, 4)
	require.NoError(t, err)
	require.Len(t, res, 1, "el lote agotado se descarta")
	assert.Equal(t, 4, res[0].Cantidad)
	assert.Equal(t, t1, res[0].FechaAdquisicion)
}

func TestConsumirVentaFIFO_RespetaReservaCliente(t *testing.T) {
	lotes := []entity.Lote{loteSimple(10, t0)}
	lotes, err := lote.ReservarFIFO(lotes, 7, entity.EjeCliente, "cc1")
	require.NoError(t, err)

	// Solo hay 3 vendibles.
	_, err = lote.ConsumirVentaFIFO(lotes, 4)
	var stockErr *domain.StockInsuficienteError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Disponible)

	res, err := lote.ConsumirVentaFIFO(lotes, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, lote.StockTotal(res))
	assert.Equal(t, 7, res[0].ReservadoPor(entity.EjeCliente, "cc1"))
}

// Vender unidades en condicional de proveedor es legal; el conteo de reserva
// del proveedor se recorta al nuevo tamaño del lote.
func TestConsumirVentaFIFO_VendeStockDeProveedor(t *testing.T) {
	lotes := []entity.Lote{lote.NuevoLoteProveedor(5, "cf1", t0)}

	res, err := lote.ConsumirVentaFIFO(lotes, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res[0].Cantidad)
	assert.Equal(t, 3, res[0].ReservadoPor(entity.EjeProveedor, "cf1"))
	verificarCotaReservas(t, res)
}

// ── ConsumirReservadoFIFO ─────────────────────────────────────────────────────

func TestConsumirReservadoFIFO_SoloUnidadesDeLaCondicional(t *testing.T) {
	lotes := []entity.Lote{loteSimple(4, t0), loteSimple(4, t1)}
	lotes, err := lote.ReservarFIFO(lotes, 6, entity.EjeCliente, "cc1")
	require.NoError(t, err)

	res, err := lote.ConsumirReservadoFIFO(lotes, 3, entity.EjeCliente, "cc1")
	require.NoError(t, err)
	assert.Equal(t, 5, lote.StockTotal(res))
	assert.Equal(t, 3, lote.ReservadoPorCondicional(res, entity.EjeCliente, "cc1"))
	// El lote más antiguo se consume primero y desaparece si queda en cero.
	assert.Equal(t, 1, res[0].Cantidad)
}

func TestConsumirReservadoFIFO_FallaSinReservaSuficiente(t *testing.T) {
	lotes := []entity.Lote{loteSimple(4, t0)}
	lotes, err := lote.ReservarFIFO(lotes, 2, entity.EjeCliente, "cc1")
	require.NoError(t, err)

	_, err = lote.ConsumirReservadoFIFO(lotes, 3, entity.EjeCliente, "cc1")
	var stockErr *domain.StockInsuficienteError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Disponible)
}

// ── Conservación ──────────────────────────────────────────────────────────────

// TestConservacionStock: tras una secuencia de reservas, liberaciones y
// consumos, el stock total siempre es lo entrado menos lo removido.
func TestConservacionStock(t *testing.T) {
	lotes := []entity.Lote{loteSimple(10, t0)} // entran 10
	entrado, removido := 10, 0

	lotes = append(lotes, lote.NuevoLoteProveedor(5, "cf1", t1)) // entran 5
	entrado += 5
	assert.Equal(t, entrado-removido, lote.StockTotal(lotes))

	lotes, err := lote.ReservarFIFO(lotes, 6, entity.EjeCliente, "cc1")
	require.NoError(t, err)
	assert.Equal(t, entrado-removido, lote.StockTotal(lotes), "reservar no mueve stock")

	lotes, _, err = lote.LiberarFIFO(lotes, 2, entity.EjeCliente, "cc1")
	require.NoError(t, err)
	assert.Equal(t, entrado-removido, lote.StockTotal(lotes), "liberar no mueve stock")

	lotes, err = lote.ConsumirReservadoFIFO(lotes, 4, entity.EjeCliente, "cc1")
	require.NoError(t, err)
	removido += 4
	assert.Equal(t, entrado-removido, lote.StockTotal(lotes))

	lotes, err = lote.ConsumirVentaFIFO(lotes, 3)
	require.NoError(t, err)
	removido += 3
	assert.Equal(t, entrado-removido, lote.StockTotal(lotes))

	verificarCotaReservas(t, lotes)
}

// ── Normalizar ────────────────────────────────────────────────────────────────

func TestNormalizar_DescartaLotesEnCeroConReservasResiduales(t *testing.T) {
	// Cantidad 0 con reservas residuales es un defecto: se sanea.
	defectuoso := entity.Lote{Cantidad: 0, FechaAdquisicion: t0}
	defectuoso.Reservar(entity.EjeCliente, "cc1", 2)

	res := lote.Normalizar([]entity.Lote{defectuoso, loteSimple(3, t1)})
	require.Len(t, res, 1)
	assert.Equal(t, 3, res[0].Cantidad)
}
