package entity

import "time"

// EjeReserva distingue los dos ejes independientes de reserva sobre un lote.
// Una misma unidad puede llevar a la vez una reserva de cada eje.
type EjeReserva string

const (
	EjeCliente   EjeReserva = "cliente"
	EjeProveedor EjeReserva = "proveedor"
)

// Lote es la unidad de stock físico: unidades idénticas adquiridas juntas,
// con la fecha de adquisición que define el orden FIFO de consumo.
// Las reservas se llevan como mapa condicional_id -> cantidad de unidades
// reservadas (multiset compacto, no el array de ids repetidos del legacy).
type Lote struct {
	Cantidad          int            `json:"cantidad"`
	FechaAdquisicion  time.Time      `json:"fecha_adquisicion"`
	ReservasCliente   map[string]int `json:"reservas_cliente,omitempty"`
	ReservasProveedor map[string]int `json:"reservas_proveedor,omitempty"`
}

// Reservas devuelve el mapa de reservas del eje pedido (puede ser nil).
func (l *Lote) Reservas(eje EjeReserva) map[string]int {
	if eje == EjeCliente {
		return l.ReservasCliente
	}
	return l.ReservasProveedor
}

// Reservado devuelve el total de unidades reservadas en un eje.
func (l *Lote) Reservado(eje EjeReserva) int {
	total := 0
	for _, n := range l.Reservas(eje) {
		total += n
	}
	return total
}

// ReservadoPor devuelve las unidades reservadas para una condicional concreta.
func (l *Lote) ReservadoPor(eje EjeReserva, condicionalID string) int {
	return l.Reservas(eje)[condicionalID]
}

// Libre devuelve las unidades sin reserva en un eje. Para el eje cliente esto
// es la cantidad vendible del lote: las reservas de proveedor no bloquean venta.
func (l *Lote) Libre(eje EjeReserva) int {
	return l.Cantidad - l.Reservado(eje)
}

// Reservar suma n unidades reservadas para una condicional en un eje.
func (l *Lote) Reservar(eje EjeReserva, condicionalID string, n int) {
	if n <= 0 {
		return
	}
	if eje == EjeCliente {
		if l.ReservasCliente == nil {
			l.ReservasCliente = make(map[string]int)
		}
		l.ReservasCliente[condicionalID] += n
	} else {
		if l.ReservasProveedor == nil {
			l.ReservasProveedor = make(map[string]int)
		}
		l.ReservasProveedor[condicionalID] += n
	}
}

// Liberar quita hasta n unidades reservadas para una condicional en un eje y
// devuelve cuántas quitó realmente (clamp, nunca queda conteo negativo).
func (l *Lote) Liberar(eje EjeReserva, condicionalID string, n int) int {
	reservas := l.Reservas(eje)
	actual, ok := reservas[condicionalID]
	if !ok || n <= 0 {
		return 0
	}
	quitadas := n
	if quitadas > actual {
		quitadas = actual
	}
	if actual-quitadas == 0 {
		delete(reservas, condicionalID)
	} else {
		reservas[condicionalID] = actual - quitadas
	}
	return quitadas
}

// Clone copia profunda del lote (los mapas de reservas son mutables).
func (l Lote) Clone() Lote {
	c := l
	if l.ReservasCliente != nil {
		c.ReservasCliente = make(map[string]int, len(l.ReservasCliente))
		for k, v := range l.ReservasCliente {
			c.ReservasCliente[k] = v
		}
	}
	if l.ReservasProveedor != nil {
		c.ReservasProveedor = make(map[string]int, len(l.ReservasProveedor))
		for k, v := range l.ReservasProveedor {
			c.ReservasProveedor[k] = v
		}
	}
	return c
}

// CloneLotes copia profunda de una lista de lotes.
func CloneLotes(lotes []Lote) []Lote {
	out := make([]Lote, len(lotes))
	for i, l := range lotes {
		out[i] = l.Clone()
	}
	return out
}
