package condicional_test

import (
	"context"
	"sync"
	"time"

	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
	"github.com/tu-usuario/consignado-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// fakeProductoRepo repositorio en memoria con verificación de versión en
// UpdateLotes, igual que el repositorio real. updateLotesHook permite inyectar
// fallos por producto.
type fakeProductoRepo struct {
	mu              sync.Mutex
	productos       map[string]*entity.Producto
	updateLotesHook func(p *entity.Producto) error
}

func newFakeProductoRepo(productos ...*entity.Producto) *fakeProductoRepo {
	r := &fakeProductoRepo{productos: make(map[string]*entity.Producto)}
	for _, p := range productos {
		r.productos[p.ID] = cloneProducto(p)
	}
	return r
}

func cloneProducto(p *entity.Producto) *entity.Producto {
	c := *p
	c.Lotes = entity.CloneLotes(p.Lotes)
	c.Tags = append([]string(nil), p.Tags...)
	return &c
}

func (r *fakeProductoRepo) Create(_ context.Context, p *entity.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.productos[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.productos[p.ID] = cloneProducto(p)
	return nil
}

func (r *fakeProductoRepo) GetByID(_ context.Context, id string) (*entity.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, nil
	}
	return cloneProducto(p), nil
}

func (r *fakeProductoRepo) GetByCodigoInterno(_ context.Context, codigo string) (*entity.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.productos {
		if p.CodigoInterno == codigo {
			return cloneProducto(p), nil
		}
	}
	return nil, nil
}

func (r *fakeProductoRepo) List(_ context.Context, _, _ int) ([]*entity.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, cloneProducto(p))
	}
	return out, nil
}

func (r *fakeProductoRepo) Update(_ context.Context, p *entity.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.productos[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.productos[p.ID] = cloneProducto(p)
	return nil
}

func (r *fakeProductoRepo) UpdateLotes(_ context.Context, p *entity.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateLotesHook != nil {
		if err := r.updateLotesHook(p); err != nil {
			return err
		}
	}
	actual, ok := r.productos[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if actual.Version != p.Version {
		return domain.ErrConflict
	}
	c := cloneProducto(p)
	c.Version++
	r.productos[p.ID] = c
	p.Version = c.Version
	return nil
}

func (r *fakeProductoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.productos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.productos, id)
	return nil
}

func (r *fakeProductoRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.productos[id]
	return ok, nil
}

func (r *fakeProductoRepo) snapshot() map[string]*entity.Producto {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*entity.Producto, len(r.productos))
	for id, p := range r.productos {
		out[id] = cloneProducto(p)
	}
	return out
}

func (r *fakeProductoRepo) restore(snap map[string]*entity.Producto) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.productos = snap
}

// fakeCondClienteRepo repositorio en memoria de condicionales de cliente con
// AgregarLinea de semántica upsert-incremento.
type fakeCondClienteRepo struct {
	mu            sync.Mutex
	condicionales map[string]*entity.CondicionalCliente
	deleteHook    func(id string) error
}

func newFakeCondClienteRepo(conds ...*entity.CondicionalCliente) *fakeCondClienteRepo {
	r := &fakeCondClienteRepo{condicionales: make(map[string]*entity.CondicionalCliente)}
	for _, c := range conds {
		r.condicionales[c.ID] = cloneCondCliente(c)
	}
	return r
}

func cloneCondCliente(c *entity.CondicionalCliente) *entity.CondicionalCliente {
	cc := *c
	cc.Productos = append([]entity.LineaCondicional(nil), c.Productos...)
	if c.FechaDevolucion != nil {
		f := *c.FechaDevolucion
		cc.FechaDevolucion = &f
	}
	return &cc
}

func (r *fakeCondClienteRepo) Create(_ context.Context, c *entity.CondicionalCliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.condicionales[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.condicionales[c.ID] = cloneCondCliente(c)
	return nil
}

func (r *fakeCondClienteRepo) GetByID(_ context.Context, id string) (*entity.CondicionalCliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.condicionales[id]
	if !ok {
		return nil, nil
	}
	return cloneCondCliente(c), nil
}

func (r *fakeCondClienteRepo) List(_ context.Context, soloActivas bool) ([]*entity.CondicionalCliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.CondicionalCliente, 0, len(r.condicionales))
	for _, c := range r.condicionales {
		if soloActivas && !c.Activa {
			continue
		}
		out = append(out, cloneCondCliente(c))
	}
	return out, nil
}

func (r *fakeCondClienteRepo) ListActivasPorCliente(_ context.Context, clienteID string) ([]*entity.CondicionalCliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.CondicionalCliente
	for _, c := range r.condicionales {
		if c.Activa && c.ClienteID == clienteID {
			out = append(out, cloneCondCliente(c))
		}
	}
	return out, nil
}

func (r *fakeCondClienteRepo) ListActivasPorProducto(_ context.Context, productoID string) ([]*entity.CondicionalCliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.CondicionalCliente
	for _, c := range r.condicionales {
		if !c.Activa {
			continue
		}
		for _, l := range c.Productos {
			if l.ProductoID == productoID {
				out = append(out, cloneCondCliente(c))
				break
			}
		}
	}
	return out, nil
}

func (r *fakeCondClienteRepo) AgregarLinea(_ context.Context, condicionalID, productoID string, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.condicionales[condicionalID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range c.Productos {
		if c.Productos[i].ProductoID == productoID {
			c.Productos[i].Cantidad += cantidad
			return nil
		}
	}
	c.Productos = append(c.Productos, entity.LineaCondicional{ProductoID: productoID, Cantidad: cantidad})
	return nil
}

func (r *fakeCondClienteRepo) MarcarDevuelta(_ context.Context, condicionalID string, fecha time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.condicionales[condicionalID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Activa = false
	f := fecha
	c.FechaDevolucion = &f
	return nil
}

func (r *fakeCondClienteRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteHook != nil {
		if err := r.deleteHook(id); err != nil {
			return err
		}
	}
	if _, ok := r.condicionales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.condicionales, id)
	return nil
}

func (r *fakeCondClienteRepo) snapshot() map[string]*entity.CondicionalCliente {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*entity.CondicionalCliente, len(r.condicionales))
	for id, c := range r.condicionales {
		out[id] = cloneCondCliente(c)
	}
	return out
}

func (r *fakeCondClienteRepo) restore(snap map[string]*entity.CondicionalCliente) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.condicionales = snap
}

// fakeCondProveedorRepo repositorio en memoria de condicionales de proveedor.
type fakeCondProveedorRepo struct {
	mu            sync.Mutex
	condicionales map[string]*entity.CondicionalProveedor
}

func newFakeCondProveedorRepo(conds ...*entity.CondicionalProveedor) *fakeCondProveedorRepo {
	r := &fakeCondProveedorRepo{condicionales: make(map[string]*entity.CondicionalProveedor)}
	for _, c := range conds {
		r.condicionales[c.ID] = cloneCondProveedor(c)
	}
	return r
}

func cloneCondProveedor(c *entity.CondicionalProveedor) *entity.CondicionalProveedor {
	cc := *c
	cc.ProductosID = append([]string(nil), c.ProductosID...)
	if c.FechaLimiteDevolucion != nil {
		f := *c.FechaLimiteDevolucion
		cc.FechaLimiteDevolucion = &f
	}
	return &cc
}

func (r *fakeCondProveedorRepo) Create(_ context.Context, c *entity.CondicionalProveedor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.condicionales[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.condicionales[c.ID] = cloneCondProveedor(c)
	return nil
}

func (r *fakeCondProveedorRepo) GetByID(_ context.Context, id string) (*entity.CondicionalProveedor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.condicionales[id]
	if !ok {
		return nil, nil
	}
	return cloneCondProveedor(c), nil
}

func (r *fakeCondProveedorRepo) List(_ context.Context, soloAbiertas bool) ([]*entity.CondicionalProveedor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.CondicionalProveedor, 0, len(r.condicionales))
	for _, c := range r.condicionales {
		if soloAbiertas && c.Cerrada {
			continue
		}
		out = append(out, cloneCondProveedor(c))
	}
	return out, nil
}

func (r *fakeCondProveedorRepo) AgregarProducto(_ context.Context, condicionalID, productoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.condicionales[condicionalID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, id := range c.ProductosID {
		if id == productoID {
			return nil
		}
	}
	c.ProductosID = append(c.ProductosID, productoID)
	return nil
}

func (r *fakeCondProveedorRepo) Cerrar(_ context.Context, condicionalID string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.condicionales[condicionalID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Cerrada = true
	c.Activa = false
	return nil
}

func (r *fakeCondProveedorRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.condicionales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.condicionales, id)
	return nil
}

func (r *fakeCondProveedorRepo) snapshot() map[string]*entity.CondicionalProveedor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*entity.CondicionalProveedor, len(r.condicionales))
	for id, c := range r.condicionales {
		out[id] = cloneCondProveedor(c)
	}
	return out
}

func (r *fakeCondProveedorRepo) restore(snap map[string]*entity.CondicionalProveedor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.condicionales = snap
}

// fakeSalidaRepo ledger en memoria, append-only.
type fakeSalidaRepo struct {
	mu      sync.Mutex
	salidas []*entity.Salida
}

func newFakeSalidaRepo() *fakeSalidaRepo { return &fakeSalidaRepo{} }

func (r *fakeSalidaRepo) Create(_ context.Context, s *entity.Salida) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *s
	r.salidas = append(r.salidas, &c)
	return nil
}

func (r *fakeSalidaRepo) GetByID(_ context.Context, id string) (*entity.Salida, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.salidas {
		if s.ID == id {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeSalidaRepo) List(_ context.Context, filtro repository.SalidaFiltro) ([]*entity.Salida, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Salida
	for _, s := range r.salidas {
		if filtro.Tipo != "" && s.Tipo != filtro.Tipo {
			continue
		}
		if filtro.ProductoID != "" && s.ProductoID != filtro.ProductoID {
			continue
		}
		if filtro.ClienteID != "" && s.ClienteID != filtro.ClienteID {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeSalidaRepo) TotalDevueltoPorCondicional(_ context.Context, condicionalProveedorID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, s := range r.salidas {
		if s.Tipo == entity.SalidaDevolucion && s.CondicionalProveedorID == condicionalProveedorID {
			total += s.Cantidad
		}
	}
	return total, nil
}

func (r *fakeSalidaRepo) porTipo(tipo string) []*entity.Salida {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Salida
	for _, s := range r.salidas {
		if s.Tipo == tipo {
			out = append(out, s)
		}
	}
	return out
}

// fakeTxRunner simula la transacción con snapshot/restore de los tres
// repositorios: un fallo dentro de Run revierte todo, igual que un rollback
// real. Con supports=false la creación ejercita el camino de compensación.
type fakeTxRunner struct {
	supports      bool
	productoRepo  *fakeProductoRepo
	condCliente   *fakeCondClienteRepo
	condProveedor *fakeCondProveedorRepo
}

func (t *fakeTxRunner) SupportsTransactions() bool { return t.supports }

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	productoRepo repository.ProductoRepository,
	condClienteRepo repository.CondicionalClienteRepository,
	condProveedorRepo repository.CondicionalProveedorRepository,
) error) error {
	snapP := t.productoRepo.snapshot()
	snapC := t.condCliente.snapshot()
	snapF := t.condProveedor.snapshot()
	if err := fn(t.productoRepo, t.condCliente, t.condProveedor); err != nil {
		t.productoRepo.restore(snapP)
		t.condCliente.restore(snapC)
		t.condProveedor.restore(snapF)
		return err
	}
	return nil
}
