package condicional_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/consignado-api/internal/application/condicional"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/lote"
)

func condicionalProveedorAbierta(id, proveedorID string, maxDevolucion int) *entity.CondicionalProveedor {
	ahora := time.Now().UTC()
	return &entity.CondicionalProveedor{
		ID:                    id,
		ProveedorID:           proveedorID,
		CantidadMaxDevolucion: maxDevolucion,
		FechaCondicional:      ahora,
		Activa:                true,
		CreatedAt:             ahora,
		UpdatedAt:             ahora,
	}
}

type proveedorFixture struct {
	productos *fakeProductoRepo
	conds     *fakeCondProveedorRepo
	condsCli  *fakeCondClienteRepo
	salidas   *fakeSalidaRepo
	uc        *condicional.ProveedorUseCase
}

func newProveedorFixture(productos *fakeProductoRepo, conds *fakeCondProveedorRepo) *proveedorFixture {
	condsCli := newFakeCondClienteRepo()
	salidas := newFakeSalidaRepo()
	return &proveedorFixture{
		productos: productos,
		conds:     conds,
		condsCli:  condsCli,
		salidas:   salidas,
		uc:        condicional.NewProveedorUseCase(productos, conds, condsCli, salidas, testLogger()),
	}
}

func TestRecibirProducto_CreaLoteReservadoYAsocia(t *testing.T) {
	f := newProveedorFixture(
		newFakeProductoRepo(productoDePrueba("p1", "EXT-1", 2)),
		newFakeCondProveedorRepo(condicionalProveedorAbierta("cp1", "prov1", 0)),
	)

	err := f.uc.RecibirProducto(context.Background(), "cp1", "p1", 5)
	require.NoError(t, err)

	p, _ := f.productos.GetByID(context.Background(), "p1")
	require.Len(t, p.Lotes, 2, "la recepción agrega un lote nuevo")
	assert.Equal(t, 7, p.StockTotal())
	assert.Equal(t, 5, lote.ReservadoPorCondicional(p.Lotes, entity.EjeProveedor, "cp1"))
	// Las reservas de proveedor no bloquean la venta.
	assert.Equal(t, 7, lote.Disponible(p.Lotes, entity.EjeCliente))
	assert.True(t, p.EnCondicionalProveedor)

	cond, _ := f.conds.GetByID(context.Background(), "cp1")
	assert.Equal(t, []string{"p1"}, cond.ProductosID)
}

func TestRecibirProducto_AsociacionIdempotente(t *testing.T) {
	f := newProveedorFixture(
		newFakeProductoRepo(productoDePrueba("p1", "EXT-1", 0)),
		newFakeCondProveedorRepo(condicionalProveedorAbierta("cp1", "prov1", 0)),
	)

	require.NoError(t, f.uc.RecibirProducto(context.Background(), "cp1", "p1", 2))
	require.NoError(t, f.uc.RecibirProducto(context.Background(), "cp1", "p1", 3))

	cond, _ := f.conds.GetByID(context.Background(), "cp1")
	assert.Equal(t, []string{"p1"}, cond.ProductosID, "el producto no se duplica en la lista")
	p, _ := f.productos.GetByID(context.Background(), "p1")
	assert.Equal(t, 5, lote.ReservadoPorCondicional(p.Lotes, entity.EjeProveedor, "cp1"))
}

func TestRecibirProducto_CondicionalCerradaRechazada(t *testing.T) {
	cerrada := condicionalProveedorAbierta("cp1", "prov1", 0)
	cerrada.Cerrada = true
	f := newProveedorFixture(
		newFakeProductoRepo(productoDePrueba("p1", "EXT-1", 0)),
		newFakeCondProveedorRepo(cerrada),
	)

	err := f.uc.RecibirProducto(context.Background(), "cp1", "p1", 1)
	assert.ErrorIs(t, err, domain.ErrCondicionalInactiva)
}

func TestDevolverUnidades_ConsumeReservaYAsientaSalida(t *testing.T) {
	f := newProveedorFixture(
		newFakeProductoRepo(productoDePrueba("p1", "EXT-1", 0)),
		newFakeCondProveedorRepo(condicionalProveedorAbierta("cp1", "prov1", 0)),
	)
	require.NoError(t, f.uc.RecibirProducto(context.Background(), "cp1", "p1", 5))

	res, err := f.uc.DevolverUnidades(context.Background(), "cp1", "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CantidadDevuelta)

	p, _ := f.productos.GetByID(context.Background(), "p1")
	assert.Equal(t, 3, p.StockTotal())
	assert.Equal(t, 3, lote.ReservadoPorCondicional(p.Lotes, entity.EjeProveedor, "cp1"))

	devoluciones := f.salidas.porTipo(entity.SalidaDevolucion)
	require.Len(t, devoluciones, 1)
	assert.Equal(t, 2, devoluciones[0].Cantidad)
	assert.Equal(t, "prov1", devoluciones[0].ProveedorID)
	assert.Equal(t, "cp1", devoluciones[0].CondicionalProveedorID)
}

func TestDevolverUnidades_TopeAcumuladoExcedido(t *testing.T) {
	f := newProveedorFixture(
		newFakeProductoRepo(productoDePrueba("p1", "EXT-1", 0)),
		newFakeCondProveedorRepo(condicionalProveedorAbierta("cp1", "prov1", 5)),
	)
	require.NoError(t, f.uc.RecibirProducto(context.Background(), "cp1", "p1", 10))
	_, err := f.uc.DevolverUnidades(context.Background(), "cp1", "p1", 3)
	require.NoError(t, err)

	// Quedan 2 del tope; pedir 3 excede.
	_, err = f.uc.DevolverUnidades(context.Background(), "cp1", "p1", 3)
	var limErr *domain.LimiteDevolucionError
	require.ErrorAs(t, err, &limErr)
	assert.Equal(t, 5, limErr.Limite)
	assert.Equal(t, 3, limErr.YaDevuelto)
	assert.Equal(t, 3, limErr.Solicitado)

	// El fallo no movió stock.
	p, _ := f.productos.GetByID(context.Background(), "p1")
	assert.Equal(t, 7, p.StockTotal())

	// Dentro del tope restante sí procede.
	_, err = f.uc.DevolverUnidades(context.Background(), "cp1", "p1", 2)
	require.NoError(t, err)
}

func TestDevolverUnidades_SinTopePermiteTodoLoReservado(t *testing.T) {
	f := newProveedorFixture(
		newFakeProductoRepo(productoDePrueba("p1", "EXT-1", 0)),
		newFakeCondProveedorRepo(condicionalProveedorAbierta("cp1", "prov1", 0)),
	)
	require.NoError(t, f.uc.RecibirProducto(context.Background(), "cp1", "p1", 4))

	_, err := f.uc.DevolverUnidades(context.Background(), "cp1", "p1", 4)
	require.NoError(t, err)

	// Sin stock pero la condicional abierta aún lo lista: no se elimina.
	p, _ := f.productos.GetByID(context.Background(), "p1")
	require.NotNil(t, p)
	assert.Equal(t, 0, p.StockTotal())
}

func TestDevolverUnidades_MasDeLoReservadoFalla(t *testing.T) {
	f := newProveedorFixture(
		newFakeProductoRepo(productoDePrueba("p1", "EXT-1", 10)),
		newFakeCondProveedorRepo(condicionalProveedorAbierta("cp1", "prov1", 0)),
	)
	require.NoError(t, f.uc.RecibirProducto(context.Background(), "cp1", "p1", 3))

	// Hay 13 unidades en stock pero solo 3 reservadas a la condicional.
	_, err := f.uc.DevolverUnidades(context.Background(), "cp1", "p1", 5)
	var stockErr *domain.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Disponible)
}

func TestCerrar_DevueltosSalenYNoDevueltosSeLiberan(t *testing.T) {
	f := newProveedorFixture(
		newFakeProductoRepo(
			productoDePrueba("p1", "EXT-1", 0),
			productoDePrueba("p2", "EXT-2", 0),
		),
		newFakeCondProveedorRepo(condicionalProveedorAbierta("cp1", "prov1", 0)),
	)
	require.NoError(t, f.uc.RecibirProducto(context.Background(), "cp1", "p1", 4))
	require.NoError(t, f.uc.RecibirProducto(context.Background(), "cp1", "p2", 6))

	err := f.uc.Cerrar(context.Background(), "cp1", []string{"p1"})
	require.NoError(t, err)

	// p1 volvió al proveedor: sin stock y eliminado del catálogo.
	p1, _ := f.productos.GetByID(context.Background(), "p1")
	assert.Nil(t, p1)

	// p2 se quedó: stock propio, sin reservas.
	p2, _ := f.productos.GetByID(context.Background(), "p2")
	require.NotNil(t, p2)
	assert.Equal(t, 6, p2.StockTotal())
	assert.Equal(t, 0, lote.ReservadoPorCondicional(p2.Lotes, entity.EjeProveedor, "cp1"))
	assert.False(t, p2.EnCondicionalProveedor)

	cierres := f.salidas.porTipo(entity.SalidaCondicionalProveedor)
	require.Len(t, cierres, 1)
	assert.Equal(t, "p1", cierres[0].ProductoID)
	assert.Equal(t, 4, cierres[0].Cantidad)

	cond, _ := f.conds.GetByID(context.Background(), "cp1")
	assert.True(t, cond.Cerrada)
}

func TestCerrar_SegundoCierreRechazado(t *testing.T) {
	f := newProveedorFixture(
		newFakeProductoRepo(productoDePrueba("p1", "EXT-1", 0)),
		newFakeCondProveedorRepo(condicionalProveedorAbierta("cp1", "prov1", 0)),
	)
	require.NoError(t, f.uc.RecibirProducto(context.Background(), "cp1", "p1", 2))
	require.NoError(t, f.uc.Cerrar(context.Background(), "cp1", nil))

	err := f.uc.Cerrar(context.Background(), "cp1", nil)
	assert.ErrorIs(t, err, domain.ErrCondicionalInactiva)
}

func TestEstadoDevolucion_ReportaTopeYReservado(t *testing.T) {
	f := newProveedorFixture(
		newFakeProductoRepo(productoDePrueba("p1", "EXT-1", 0)),
		newFakeCondProveedorRepo(condicionalProveedorAbierta("cp1", "prov1", 5)),
	)
	require.NoError(t, f.uc.RecibirProducto(context.Background(), "cp1", "p1", 10))
	_, err := f.uc.DevolverUnidades(context.Background(), "cp1", "p1", 3)
	require.NoError(t, err)

	estado, err := f.uc.EstadoDevolucion(context.Background(), "cp1")
	require.NoError(t, err)
	assert.Equal(t, 5, estado.CantidadMaxDevolucion)
	assert.Equal(t, 3, estado.YaDevuelto)
	assert.Equal(t, 2, estado.PuedeDevolver)
	assert.Equal(t, 7, estado.EnCondicional)
}
