package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
)

var _ repository.CondicionalProveedorRepository = (*CondicionalProveedorRepo)(nil)

// CondicionalProveedorRepo implementación del puerto sobre PostgreSQL. La
// asociación producto-condicional vive en condicional_proveedor_productos con
// PK compuesta: AgregarProducto es idempotente vía ON CONFLICT DO NOTHING.
type CondicionalProveedorRepo struct {
	q Querier
}

// NewCondicionalProveedorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCondicionalProveedorRepository(q Querier) *CondicionalProveedorRepo {
	return &CondicionalProveedorRepo{q: q}
}

// Create persiste la condicional (sin productos; se asocian con AgregarProducto).
func (r *CondicionalProveedorRepo) Create(ctx context.Context, c *entity.CondicionalProveedor) error {
	query := `
		INSERT INTO condicionales_proveedor (id, proveedor_id, cantidad_max_devolucion, fecha_limite_devolucion,
			fecha_condicional, activa, cerrada, observaciones, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ProveedorID, c.CantidadMaxDevolucion, c.FechaLimiteDevolucion,
		c.FechaCondicional, c.Activa, c.Cerrada, c.Observaciones, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert condicional proveedor: %w", err)
	}
	return nil
}

// GetByID obtiene la condicional con su lista de productos.
func (r *CondicionalProveedorRepo) GetByID(ctx context.Context, id string) (*entity.CondicionalProveedor, error) {
	query := `
		SELECT id, proveedor_id, cantidad_max_devolucion, fecha_limite_devolucion,
			fecha_condicional, activa, cerrada, observaciones, created_at, updated_at
		FROM condicionales_proveedor WHERE id = $1`
	var c entity.CondicionalProveedor
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ProveedorID, &c.CantidadMaxDevolucion, &c.FechaLimiteDevolucion,
		&c.FechaCondicional, &c.Activa, &c.Cerrada, &c.Observaciones, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get condicional proveedor: %w", err)
	}
	if err := r.cargarProductos(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List lista condicionales (opcionalmente solo abiertas), con sus productos.
func (r *CondicionalProveedorRepo) List(ctx context.Context, soloAbiertas bool) ([]*entity.CondicionalProveedor, error) {
	query := `
		SELECT id, proveedor_id, cantidad_max_devolucion, fecha_limite_devolucion,
			fecha_condicional, activa, cerrada, observaciones, created_at, updated_at
		FROM condicionales_proveedor`
	if soloAbiertas {
		query += ` WHERE NOT cerrada`
	}
	query += ` ORDER BY fecha_condicional DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list condicionales proveedor: %w", err)
	}
	defer rows.Close()

	var out []*entity.CondicionalProveedor
	for rows.Next() {
		var c entity.CondicionalProveedor
		if err := rows.Scan(
			&c.ID, &c.ProveedorID, &c.CantidadMaxDevolucion, &c.FechaLimiteDevolucion,
			&c.FechaCondicional, &c.Activa, &c.Cerrada, &c.Observaciones, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan condicional proveedor: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range out {
		if err := r.cargarProductos(ctx, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AgregarProducto asocia el producto a la condicional (idempotente).
func (r *CondicionalProveedorRepo) AgregarProducto(ctx context.Context, condicionalID, productoID string) error {
	query := `
		INSERT INTO condicional_proveedor_productos (condicional_id, producto_id)
		VALUES ($1, $2)
		ON CONFLICT (condicional_id, producto_id) DO NOTHING`
	_, err := r.q.Exec(ctx, query, condicionalID, productoID)
	if err != nil {
		return fmt.Errorf("agregar producto a condicional proveedor: %w", err)
	}
	return nil
}

// Cerrar marca la condicional como cerrada e inactiva.
func (r *CondicionalProveedorRepo) Cerrar(ctx context.Context, condicionalID string, fecha time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE condicionales_proveedor SET cerrada = true, activa = false, updated_at = $2 WHERE id = $1`,
		condicionalID, fecha,
	)
	if err != nil {
		return fmt.Errorf("cerrar condicional proveedor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la condicional y sus asociaciones (cascade).
func (r *CondicionalProveedorRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM condicionales_proveedor WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete condicional proveedor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CondicionalProveedorRepo) cargarProductos(ctx context.Context, c *entity.CondicionalProveedor) error {
	rows, err := r.q.Query(ctx,
		`SELECT producto_id FROM condicional_proveedor_productos WHERE condicional_id = $1 ORDER BY producto_id`,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("cargar productos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan producto id: %w", err)
		}
		c.ProductosID = append(c.ProductosID, id)
	}
	return rows.Err()
}
