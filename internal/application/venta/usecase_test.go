package venta_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/consignado-api/internal/application/dto"
	"github.com/tu-usuario/consignado-api/internal/application/venta"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/lote"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
	"github.com/tu-usuario/consignado-api/pkg/logger"
)

type productoRepoStub struct {
	mu        sync.Mutex
	productos map[string]*entity.Producto
}

func newProductoRepoStub(productos ...*entity.Producto) *productoRepoStub {
	r := &productoRepoStub{productos: make(map[string]*entity.Producto)}
	for _, p := range productos {
		c := *p
		c.Lotes = entity.CloneLotes(p.Lotes)
		r.productos[p.ID] = &c
	}
	return r
}

func (r *productoRepoStub) Create(_ context.Context, p *entity.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.productos[p.ID] = p
	return nil
}

func (r *productoRepoStub) GetByID(_ context.Context, id string) (*entity.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, nil
	}
	c := *p
	c.Lotes = entity.CloneLotes(p.Lotes)
	return &c, nil
}

func (r *productoRepoStub) GetByCodigoInterno(_ context.Context, _ string) (*entity.Producto, error) {
	return nil, nil
}

func (r *productoRepoStub) List(_ context.Context, _, _ int) ([]*entity.Producto, error) {
	return nil, nil
}

func (r *productoRepoStub) Update(_ context.Context, p *entity.Producto) error {
	return r.Create(context.Background(), p)
}

func (r *productoRepoStub) UpdateLotes(_ context.Context, p *entity.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	actual, ok := r.productos[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if actual.Version != p.Version {
		return domain.ErrConflict
	}
	c := *p
	c.Lotes = entity.CloneLotes(p.Lotes)
	c.Version++
	r.productos[p.ID] = &c
	return nil
}

func (r *productoRepoStub) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.productos, id)
	return nil
}

func (r *productoRepoStub) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.productos[id]
	return ok, nil
}

type clienteRepoStub struct {
	clientes map[string]*entity.Cliente
}

func (r *clienteRepoStub) Create(_ context.Context, c *entity.Cliente) error { return nil }
func (r *clienteRepoStub) GetByID(_ context.Context, id string) (*entity.Cliente, error) {
	return r.clientes[id], nil
}
func (r *clienteRepoStub) List(_ context.Context, _, _ int) ([]*entity.Cliente, error) {
	return nil, nil
}
func (r *clienteRepoStub) Update(_ context.Context, _ *entity.Cliente) error { return nil }
func (r *clienteRepoStub) Delete(_ context.Context, _ string) error          { return nil }

type salidaRepoStub struct {
	salidas []*entity.Salida
}

func (r *salidaRepoStub) Create(_ context.Context, s *entity.Salida) error {
	c := *s
	r.salidas = append(r.salidas, &c)
	return nil
}

func (r *salidaRepoStub) GetByID(_ context.Context, _ string) (*entity.Salida, error) {
	return nil, nil
}

func (r *salidaRepoStub) List(_ context.Context, _ repository.SalidaFiltro) ([]*entity.Salida, error) {
	return r.salidas, nil
}

func (r *salidaRepoStub) TotalDevueltoPorCondicional(_ context.Context, _ string) (int, error) {
	return 0, nil
}

// cacheStub cache en memoria que registra invalidaciones.
type cacheStub struct {
	datos      map[string][]byte
	borradas   []string
	escrituras int
}

func newCacheStub() *cacheStub { return &cacheStub{datos: make(map[string][]byte)} }

func (c *cacheStub) Get(_ context.Context, key string, dest interface{}) error {
	b, ok := c.datos[key]
	if !ok {
		return venta.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *cacheStub) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.datos[key] = b
	c.escrituras++
	return nil
}

func (c *cacheStub) Delete(_ context.Context, key string) error {
	delete(c.datos, key)
	c.borradas = append(c.borradas, key)
	return nil
}

func productoConLotes(id string, cantidades ...int) *entity.Producto {
	p := &entity.Producto{
		ID:          id,
		PrecioVenta: decimal.NewFromInt(50),
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range cantidades {
		p.Lotes = append(p.Lotes, entity.Lote{
			Cantidad:         c,
			FechaAdquisicion: base.AddDate(0, 0, i),
		})
	}
	return p
}

func newUseCase(productos *productoRepoStub, salidas *salidaRepoStub, cache venta.Cache) *venta.UseCase {
	return venta.NewUseCase(
		productos,
		&clienteRepoStub{clientes: map[string]*entity.Cliente{"cli1": {ID: "cli1"}}},
		salidas,
		cache,
		logger.New(logger.Config{Env: "production", Level: "error"}),
	)
}

func TestProcesar_ConsumeFIFOYAsientaSalida(t *testing.T) {
	productos := newProductoRepoStub(productoConLotes("p1", 3, 5, 2))
	salidas := &salidaRepoStub{}
	uc := newUseCase(productos, salidas, nil)

	res, err := uc.Procesar(context.Background(), dto.VentaRequest{ProductoID: "p1", Cantidad: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, res.CantidadVendida)
	assert.Equal(t, 4, res.StockRestante)

	// FIFO: lote de 3 agotado, 3 del lote de 5, el de 2 intacto.
	p, _ := productos.GetByID(context.Background(), "p1")
	require.Len(t, p.Lotes, 2)
	assert.Equal(t, 2, p.Lotes[0].Cantidad)
	assert.Equal(t, 2, p.Lotes[1].Cantidad)

	require.Len(t, salidas.salidas, 1)
	assert.Equal(t, entity.SalidaVenta, salidas.salidas[0].Tipo)
	assert.True(t, salidas.salidas[0].ValorTotal.Equal(decimal.NewFromInt(300)), "6 unidades al precio de venta por defecto")
}

func TestProcesar_RespetaReservasDeCliente(t *testing.T) {
	p := productoConLotes("p1", 5)
	p.Lotes[0].Reservar(entity.EjeCliente, "c1", 3)
	productos := newProductoRepoStub(p)
	uc := newUseCase(productos, &salidaRepoStub{}, nil)

	_, err := uc.Procesar(context.Background(), dto.VentaRequest{ProductoID: "p1", Cantidad: 3})
	var stockErr *domain.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Disponible)

	actual, _ := productos.GetByID(context.Background(), "p1")
	assert.Equal(t, 5, actual.StockTotal())
	assert.Equal(t, 3, lote.ReservadoPorCondicional(actual.Lotes, entity.EjeCliente, "c1"))
}

func TestProcesar_ClienteInexistenteRechazado(t *testing.T) {
	productos := newProductoRepoStub(productoConLotes("p1", 5))
	uc := newUseCase(productos, &salidaRepoStub{}, nil)

	_, err := uc.Procesar(context.Background(), dto.VentaRequest{
		ProductoID: "p1", Cantidad: 1, ClienteID: "fantasma",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcesar_InvalidaCacheDeStock(t *testing.T) {
	productos := newProductoRepoStub(productoConLotes("p1", 5))
	cache := newCacheStub()
	uc := newUseCase(productos, &salidaRepoStub{}, cache)

	// Poblar la cache y vender: la clave tiene que invalidarse.
	_, err := uc.StockDisponible(context.Background(), "p1")
	require.NoError(t, err)
	_, err = uc.Procesar(context.Background(), dto.VentaRequest{ProductoID: "p1", Cantidad: 2})
	require.NoError(t, err)
	assert.Contains(t, cache.borradas, "stock:p1")

	// La siguiente consulta repuebla con el stock real.
	stock, err := uc.StockDisponible(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, stock.StockTotal)
}

func TestStockDisponible_SirveDesdeCache(t *testing.T) {
	productos := newProductoRepoStub(productoConLotes("p1", 5))
	cache := newCacheStub()
	uc := newUseCase(productos, &salidaRepoStub{}, cache)

	_, err := uc.StockDisponible(context.Background(), "p1")
	require.NoError(t, err)
	_, err = uc.StockDisponible(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.escrituras, "la segunda consulta sale de cache")
}

func TestRegistrarMerma_ConsumeStockYAsientaAlCosto(t *testing.T) {
	p := productoConLotes("p1", 4)
	p.PrecioCosto = decimal.NewFromInt(20)
	productos := newProductoRepoStub(p)
	salidas := &salidaRepoStub{}
	uc := newUseCase(productos, salidas, nil)

	res, err := uc.RegistrarMerma(context.Background(), dto.MermaRequest{
		ProductoID: "p1", Cantidad: 3, Tipo: entity.SalidaPerdida,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.StockRestante)

	require.Len(t, salidas.salidas, 1)
	assert.Equal(t, entity.SalidaPerdida, salidas.salidas[0].Tipo)
	assert.True(t, salidas.salidas[0].ValorTotal.Equal(decimal.NewFromInt(60)), "la merma se asienta al costo")
}

func TestRegistrarMerma_TipoInvalidoRechazado(t *testing.T) {
	productos := newProductoRepoStub(productoConLotes("p1", 4))
	uc := newUseCase(productos, &salidaRepoStub{}, nil)

	_, err := uc.RegistrarMerma(context.Background(), dto.MermaRequest{
		ProductoID: "p1", Cantidad: 1, Tipo: "venta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	actual, _ := productos.GetByID(context.Background(), "p1")
	assert.Equal(t, 4, actual.StockTotal())
}

func TestProcesarBatch_CadaItemIndependiente(t *testing.T) {
	productos := newProductoRepoStub(productoConLotes("p1", 3))
	uc := newUseCase(productos, &salidaRepoStub{}, nil)

	res := uc.ProcesarBatch(context.Background(), []dto.VentaRequest{
		{ProductoID: "p1", Cantidad: 2},
		{ProductoID: "p1", Cantidad: 5}, // ya solo queda 1
		{ProductoID: "p1", Cantidad: 1},
	})
	require.Len(t, res, 3)
	assert.NotNil(t, res[0].Venta)
	assert.NotEmpty(t, res[1].Error)
	assert.NotNil(t, res[2].Venta)
	assert.Equal(t, 0, res[2].Venta.StockRestante)
}
