package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
)

var _ repository.SalidaRepository = (*SalidaRepo)(nil)

// SalidaRepo ledger de salidas sobre PostgreSQL: solo INSERT y SELECT, las
// filas nunca se actualizan ni borran.
type SalidaRepo struct {
	q Querier
}

// NewSalidaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalidaRepository(q Querier) *SalidaRepo {
	return &SalidaRepo{q: q}
}

// Create asienta una salida.
func (r *SalidaRepo) Create(ctx context.Context, s *entity.Salida) error {
	query := `
		INSERT INTO salidas (id, producto_id, cliente_id, proveedor_id, condicional_cliente_id,
			condicional_proveedor_id, cantidad, tipo, fecha_salida, valor_total, observaciones, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ProductoID, nullable(s.ClienteID), nullable(s.ProveedorID),
		nullable(s.CondicionalClienteID), nullable(s.CondicionalProveedorID),
		s.Cantidad, s.Tipo, s.FechaSalida, s.ValorTotal, s.Observaciones, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert salida: %w", err)
	}
	return nil
}

// GetByID obtiene una salida por ID.
func (r *SalidaRepo) GetByID(ctx context.Context, id string) (*entity.Salida, error) {
	query := `
		SELECT id, producto_id, COALESCE(cliente_id, ''), COALESCE(proveedor_id, ''),
			COALESCE(condicional_cliente_id, ''), COALESCE(condicional_proveedor_id, ''),
			cantidad, tipo, fecha_salida, valor_total, observaciones, created_at
		FROM salidas WHERE id = $1`
	var s entity.Salida
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ProductoID, &s.ClienteID, &s.ProveedorID,
		&s.CondicionalClienteID, &s.CondicionalProveedorID,
		&s.Cantidad, &s.Tipo, &s.FechaSalida, &s.ValorTotal, &s.Observaciones, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get salida: %w", err)
	}
	return &s, nil
}

// List consulta el ledger por filtros opcionales.
func (r *SalidaRepo) List(ctx context.Context, filtro repository.SalidaFiltro) ([]*entity.Salida, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, producto_id, COALESCE(cliente_id, ''), COALESCE(proveedor_id, ''),
			COALESCE(condicional_cliente_id, ''), COALESCE(condicional_proveedor_id, ''),
			cantidad, tipo, fecha_salida, valor_total, observaciones, created_at
		FROM salidas WHERE true`)
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filtro.Tipo != "" {
		sb.WriteString(" AND tipo = " + arg(filtro.Tipo))
	}
	if filtro.ProductoID != "" {
		sb.WriteString(" AND producto_id = " + arg(filtro.ProductoID))
	}
	if filtro.ClienteID != "" {
		sb.WriteString(" AND cliente_id = " + arg(filtro.ClienteID))
	}
	if filtro.Desde != nil {
		sb.WriteString(" AND fecha_salida >= " + arg(*filtro.Desde))
	}
	if filtro.Hasta != nil {
		sb.WriteString(" AND fecha_salida < " + arg(*filtro.Hasta))
	}
	sb.WriteString(" ORDER BY fecha_salida DESC")
	if filtro.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filtro.Limit))
	}
	if filtro.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filtro.Offset))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list salidas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Salida
	for rows.Next() {
		var s entity.Salida
		if err := rows.Scan(
			&s.ID, &s.ProductoID, &s.ClienteID, &s.ProveedorID,
			&s.CondicionalClienteID, &s.CondicionalProveedorID,
			&s.Cantidad, &s.Tipo, &s.FechaSalida, &s.ValorTotal, &s.Observaciones, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan salida: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// TotalDevueltoPorCondicional suma las salidas tipo devolución de una
// condicional de proveedor (el tope de devolución es acumulado).
func (r *SalidaRepo) TotalDevueltoPorCondicional(ctx context.Context, condicionalProveedorID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(cantidad), 0) FROM salidas WHERE tipo = $1 AND condicional_proveedor_id = $2`,
		entity.SalidaDevolucion, condicionalProveedorID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total devuelto: %w", err)
	}
	return total, nil
}

// nullable convierte cadena vacía en NULL (columnas FK opcionales).
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
