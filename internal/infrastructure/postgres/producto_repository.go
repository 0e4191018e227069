package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
)

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

// ProductoRepo implementación del puerto ProductoRepository sobre PostgreSQL
// (usable con pool o tx). Los lotes viven como JSONB en la fila del producto:
// la lista completa se reemplaza en una escritura verificada por versión.
type ProductoRepo struct {
	q Querier
}

// NewProductoRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

const productoColumnas = `id, codigo_interno, codigo_externo, descripcion, marca_proveedor, sesion,
		en_condicional_cliente, en_condicional_proveedor, lotes, precio_costo, precio_venta,
		tags, version, created_at, updated_at`

// Create persiste un nuevo producto con su lote inicial.
func (r *ProductoRepo) Create(ctx context.Context, producto *entity.Producto) error {
	lotes, err := json.Marshal(producto.Lotes)
	if err != nil {
		return fmt.Errorf("marshal lotes: %w", err)
	}
	query := `
		INSERT INTO productos (id, codigo_interno, codigo_externo, descripcion, marca_proveedor, sesion,
			en_condicional_cliente, en_condicional_proveedor, lotes, precio_costo, precio_venta,
			tags, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(ctx, query,
		producto.ID, producto.CodigoInterno, producto.CodigoExterno, producto.Descripcion,
		producto.MarcaProveedor, producto.Sesion,
		producto.EnCondicionalCliente, producto.EnCondicionalProveedor, lotes,
		producto.PrecioCosto, producto.PrecioVenta, producto.Tags,
		producto.Version, producto.CreatedAt, producto.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductoRepo) GetByID(ctx context.Context, id string) (*entity.Producto, error) {
	row := r.q.QueryRow(ctx, `SELECT `+productoColumnas+` FROM productos WHERE id = $1`, id)
	return scanProducto(row)
}

// GetByCodigoInterno obtiene un producto por su código interno (único).
func (r *ProductoRepo) GetByCodigoInterno(ctx context.Context, codigo string) (*entity.Producto, error) {
	row := r.q.QueryRow(ctx, `SELECT `+productoColumnas+` FROM productos WHERE codigo_interno = $1`, codigo)
	return scanProducto(row)
}

// List lista productos con paginación.
func (r *ProductoRepo) List(ctx context.Context, limit, offset int) ([]*entity.Producto, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productoColumnas+` FROM productos ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Producto
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update actualiza los campos de catálogo. Los lotes solo se tocan vía UpdateLotes.
func (r *ProductoRepo) Update(ctx context.Context, producto *entity.Producto) error {
	query := `
		UPDATE productos SET codigo_externo = $2, descripcion = $3, marca_proveedor = $4, sesion = $5,
			precio_costo = $6, precio_venta = $7, tags = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		producto.ID, producto.CodigoExterno, producto.Descripcion, producto.MarcaProveedor,
		producto.Sesion, producto.PrecioCosto, producto.PrecioVenta, producto.Tags,
		producto.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateLotes reemplaza la lista de lotes y los flags derivados, verificada
// por versión: cero filas afectadas significa que la versión leída ya no es la
// actual (o la fila desapareció) y el caller debe reintentar.
func (r *ProductoRepo) UpdateLotes(ctx context.Context, producto *entity.Producto) error {
	lotes, err := json.Marshal(producto.Lotes)
	if err != nil {
		return fmt.Errorf("marshal lotes: %w", err)
	}
	query := `
		UPDATE productos
		SET lotes = $3, en_condicional_cliente = $4, en_condicional_proveedor = $5,
			version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2`
	cmd, err := r.q.Exec(ctx, query,
		producto.ID, producto.Version, lotes,
		producto.EnCondicionalCliente, producto.EnCondicionalProveedor,
	)
	if err != nil {
		return fmt.Errorf("update lotes: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	producto.Version++
	return nil
}

// Delete elimina un producto.
func (r *ProductoRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Exists verifica existencia por ID.
func (r *ProductoRepo) Exists(ctx context.Context, id string) (bool, error) {
	var existe bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM productos WHERE id = $1)`, id).Scan(&existe)
	if err != nil {
		return false, fmt.Errorf("exists producto: %w", err)
	}
	return existe, nil
}

func scanProducto(row pgx.Row) (*entity.Producto, error) {
	var p entity.Producto
	var lotes []byte
	err := row.Scan(
		&p.ID, &p.CodigoInterno, &p.CodigoExterno, &p.Descripcion, &p.MarcaProveedor, &p.Sesion,
		&p.EnCondicionalCliente, &p.EnCondicionalProveedor, &lotes,
		&p.PrecioCosto, &p.PrecioVenta, &p.Tags, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan producto: %w", err)
	}
	if len(lotes) > 0 {
		if err := json.Unmarshal(lotes, &p.Lotes); err != nil {
			return nil, fmt.Errorf("unmarshal lotes: %w", err)
		}
	}
	return &p, nil
}
