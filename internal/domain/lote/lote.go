// Package lote implementa el almacén de lotes y el asignador FIFO: las
// primitivas puras sobre la lista de lotes de un producto que comparten las
// ventas y las condicionales de cliente y de proveedor.
//
// Todas las funciones son transformaciones deterministas sobre copias en
// memoria: nunca mutan la lista recibida. El caller es responsable de
// persistir la lista resultante de forma atómica junto con la actualización
// de la condicional relacionada.
package lote

import (
	"sort"
	"time"

	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// StockTotal suma las cantidades de todos los lotes.
func StockTotal(lotes []entity.Lote) int {
	total := 0
	for i := range lotes {
		total += lotes[i].Cantidad
	}
	return total
}

// Disponible devuelve las unidades libres en el eje pedido. Para EjeCliente
// es la cantidad vendible: total menos reservado por clientes (las reservas
// de proveedor no bloquean venta).
func Disponible(lotes []entity.Lote, eje entity.EjeReserva) int {
	total := 0
	for i := range lotes {
		total += lotes[i].Libre(eje)
	}
	return total
}

// ReservadoPorCondicional suma las unidades reservadas para una condicional
// concreta en un eje, a través de todos los lotes.
func ReservadoPorCondicional(lotes []entity.Lote, eje entity.EjeReserva, condicionalID string) int {
	total := 0
	for i := range lotes {
		total += lotes[i].ReservadoPor(eje, condicionalID)
	}
	return total
}

// NuevoLoteProveedor crea un lote entrante ya reservado para una condicional
// de proveedor (recepción de stock consignado).
func NuevoLoteProveedor(cantidad int, condicionalID string, fecha time.Time) entity.Lote {
	l := entity.Lote{Cantidad: cantidad, FechaAdquisicion: fecha}
	l.Reservar(entity.EjeProveedor, condicionalID, cantidad)
	return l
}

// Normalizar limpia la lista: recorta reservas que excedan la cantidad del
// lote (defecto a sanear, no un estado legal) y descarta lotes en cero.
func Normalizar(lotes []entity.Lote) []entity.Lote {
	out := make([]entity.Lote, 0, len(lotes))
	for i := range lotes {
		l := lotes[i].Clone()
		clampReservas(&l, entity.EjeCliente)
		clampReservas(&l, entity.EjeProveedor)
		if l.Cantidad > 0 {
			out = append(out, l)
		}
	}
	return out
}

// clampReservas reduce las reservas de un eje hasta que no excedan la
// cantidad del lote. Recorta en orden de clave para ser determinista.
func clampReservas(l *entity.Lote, eje entity.EjeReserva) {
	exceso := l.Reservado(eje) - l.Cantidad
	if exceso <= 0 {
		return
	}
	reservas := l.Reservas(eje)
	claves := make([]string, 0, len(reservas))
	for k := range reservas {
		claves = append(claves, k)
	}
	sort.Strings(claves)
	for _, k := range claves {
		if exceso <= 0 {
			break
		}
		quitadas := l.Liberar(eje, k, exceso)
		exceso -= quitadas
	}
}

// ordenFIFO devuelve los índices de los lotes ordenados por fecha de
// adquisición ascendente. El sort es estable: empates de fecha conservan el
// orden original de la lista, requerido para expectativas reproducibles.
func ordenFIFO(lotes []entity.Lote) []int {
	idx := make([]int, len(lotes))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return lotes[idx[a]].FechaAdquisicion.Before(lotes[idx[b]].FechaAdquisicion)
	})
	return idx
}
