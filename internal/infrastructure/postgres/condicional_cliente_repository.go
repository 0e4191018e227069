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

var _ repository.CondicionalClienteRepository = (*CondicionalClienteRepo)(nil)

// CondicionalClienteRepo implementación del puerto sobre PostgreSQL. Las
// líneas viven en condicional_cliente_lineas con PK (condicional_id,
// producto_id): el upsert de AgregarLinea es atómico en la base.
type CondicionalClienteRepo struct {
	q Querier
}

// NewCondicionalClienteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCondicionalClienteRepository(q Querier) *CondicionalClienteRepo {
	return &CondicionalClienteRepo{q: q}
}

// Create persiste la condicional (sin líneas; se agregan con AgregarLinea).
func (r *CondicionalClienteRepo) Create(ctx context.Context, c *entity.CondicionalCliente) error {
	query := `
		INSERT INTO condicionales_cliente (id, cliente_id, fecha_condicional, fecha_devolucion, activa, observaciones, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ClienteID, c.FechaCondicional, c.FechaDevolucion, c.Activa,
		c.Observaciones, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert condicional cliente: %w", err)
	}
	return nil
}

// GetByID obtiene la condicional con sus líneas.
func (r *CondicionalClienteRepo) GetByID(ctx context.Context, id string) (*entity.CondicionalCliente, error) {
	query := `
		SELECT id, cliente_id, fecha_condicional, fecha_devolucion, activa, observaciones, created_at, updated_at
		FROM condicionales_cliente WHERE id = $1`
	var c entity.CondicionalCliente
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ClienteID, &c.FechaCondicional, &c.FechaDevolucion, &c.Activa,
		&c.Observaciones, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get condicional cliente: %w", err)
	}
	if err := r.cargarLineas(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List lista condicionales (opcionalmente solo activas), con líneas.
func (r *CondicionalClienteRepo) List(ctx context.Context, soloActivas bool) ([]*entity.CondicionalCliente, error) {
	query := `
		SELECT id, cliente_id, fecha_condicional, fecha_devolucion, activa, observaciones, created_at, updated_at
		FROM condicionales_cliente`
	if soloActivas {
		query += ` WHERE activa`
	}
	query += ` ORDER BY fecha_condicional DESC`
	return r.listar(ctx, query)
}

// ListActivasPorCliente lista condicionales activas de un cliente.
func (r *CondicionalClienteRepo) ListActivasPorCliente(ctx context.Context, clienteID string) ([]*entity.CondicionalCliente, error) {
	query := `
		SELECT id, cliente_id, fecha_condicional, fecha_devolucion, activa, observaciones, created_at, updated_at
		FROM condicionales_cliente WHERE activa AND cliente_id = $1 ORDER BY fecha_condicional DESC`
	return r.listar(ctx, query, clienteID)
}

// ListActivasPorProducto lista condicionales activas con línea para el producto.
func (r *CondicionalClienteRepo) ListActivasPorProducto(ctx context.Context, productoID string) ([]*entity.CondicionalCliente, error) {
	query := `
		SELECT c.id, c.cliente_id, c.fecha_condicional, c.fecha_devolucion, c.activa, c.observaciones, c.created_at, c.updated_at
		FROM condicionales_cliente c
		JOIN condicional_cliente_lineas l ON l.condicional_id = c.id
		WHERE c.activa AND l.producto_id = $1
		ORDER BY c.fecha_condicional DESC`
	return r.listar(ctx, query, productoID)
}

// AgregarLinea crea o incrementa la línea en una sola sentencia atómica.
func (r *CondicionalClienteRepo) AgregarLinea(ctx context.Context, condicionalID, productoID string, cantidad int) error {
	query := `
		INSERT INTO condicional_cliente_lineas (condicional_id, producto_id, cantidad)
		VALUES ($1, $2, $3)
		ON CONFLICT (condicional_id, producto_id)
		DO UPDATE SET cantidad = condicional_cliente_lineas.cantidad + EXCLUDED.cantidad`
	_, err := r.q.Exec(ctx, query, condicionalID, productoID, cantidad)
	if err != nil {
		return fmt.Errorf("agregar linea: %w", err)
	}
	return nil
}

// MarcarDevuelta pasa la condicional a inactiva con fecha de devolución.
func (r *CondicionalClienteRepo) MarcarDevuelta(ctx context.Context, condicionalID string, fecha time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE condicionales_cliente SET activa = false, fecha_devolucion = $2, updated_at = now() WHERE id = $1`,
		condicionalID, fecha,
	)
	if err != nil {
		return fmt.Errorf("marcar devuelta: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la condicional y sus líneas (cascade).
func (r *CondicionalClienteRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM condicionales_cliente WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete condicional cliente: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CondicionalClienteRepo) listar(ctx context.Context, query string, args ...any) ([]*entity.CondicionalCliente, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list condicionales cliente: %w", err)
	}
	defer rows.Close()

	var out []*entity.CondicionalCliente
	for rows.Next() {
		var c entity.CondicionalCliente
		if err := rows.Scan(
			&c.ID, &c.ClienteID, &c.FechaCondicional, &c.FechaDevolucion, &c.Activa,
			&c.Observaciones, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan condicional cliente: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range out {
		if err := r.cargarLineas(ctx, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *CondicionalClienteRepo) cargarLineas(ctx context.Context, c *entity.CondicionalCliente) error {
	rows, err := r.q.Query(ctx,
		`SELECT producto_id, cantidad FROM condicional_cliente_lineas WHERE condicional_id = $1 ORDER BY producto_id`,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("cargar lineas: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.LineaCondicional
		if err := rows.Scan(&l.ProductoID, &l.Cantidad); err != nil {
			return fmt.Errorf("scan linea: %w", err)
		}
		c.Productos = append(c.Productos, l)
	}
	return rows.Err()
}
