package lote

import (
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// ReservarFIFO reserva cantidad unidades para una condicional en el eje dado,
// consumiendo primero los lotes de adquisición más antigua. Verifica la
// suficiencia total ANTES de mutar: en falta de stock devuelve
// StockInsuficienteError con lo disponible y no aplica ningún cambio.
func ReservarFIFO(lotes []entity.Lote, cantidad int, eje entity.EjeReserva, condicionalID string) ([]entity.Lote, error) {
	if cantidad < 0 {
		return nil, domain.ErrCantidadInvalida
	}
	if cantidad == 0 {
		return entity.CloneLotes(lotes), nil
	}
	disponible := Disponible(lotes, eje)
	if disponible < cantidad {
		return nil, &domain.StockInsuficienteError{Disponible: disponible, Solicitado: cantidad}
	}

	out := entity.CloneLotes(lotes)
	restante := cantidad
	for _, i := range ordenFIFO(out) {
		if restante == 0 {
			break
		}
		libre := out[i].Libre(eje)
		if libre <= 0 {
			continue
		}
		toma := min(libre, restante)
		out[i].Reservar(eje, condicionalID, toma)
		restante -= toma
	}
	return out, nil
}

// LiberarFIFO quita hasta cantidad reservas de una condicional en el eje
// dado, consumiendo primero las unidades etiquetadas de adquisición más
// antigua (las reservas se aplicaron FIFO al enviar, así que liberar por lote
// sin reordenar fechas preserva el orden). Devuelve las unidades realmente
// liberadas: liberar más de lo presente hace clamp, nunca deja conteos
// negativos.
func LiberarFIFO(lotes []entity.Lote, cantidad int, eje entity.EjeReserva, condicionalID string) ([]entity.Lote, int, error) {
	if cantidad < 0 {
		return nil, 0, domain.ErrCantidadInvalida
	}
	out := entity.CloneLotes(lotes)
	restante := cantidad
	liberadas := 0
	for _, i := range ordenFIFO(out) {
		if restante == 0 {
			break
		}
		quitadas := out[i].Liberar(eje, condicionalID, restante)
		restante -= quitadas
		liberadas += quitadas
	}
	return out, liberadas, nil
}

// ConsumirVentaFIFO quita cantidad unidades vendibles del stock (venta
// directa): lotes más antiguos primero, solo unidades sin reserva de cliente.
// Las unidades con reserva de proveedor SÍ son vendibles; al consumirlas el
// conteo de reserva de proveedor se recorta al nuevo tamaño del lote. Los
// lotes que llegan a cero se descartan.
func ConsumirVentaFIFO(lotes []entity.Lote, cantidad int) ([]entity.Lote, error) {
	if cantidad < 0 {
		return nil, domain.ErrCantidadInvalida
	}
	if cantidad == 0 {
		return entity.CloneLotes(lotes), nil
	}
	disponible := Disponible(lotes, entity.EjeCliente)
	if disponible < cantidad {
		return nil, &domain.StockInsuficienteError{Disponible: disponible, Solicitado: cantidad}
	}

	out := entity.CloneLotes(lotes)
	restante := cantidad
	for _, i := range ordenFIFO(out) {
		if restante == 0 {
			break
		}
		libre := out[i].Libre(entity.EjeCliente)
		if libre <= 0 {
			continue
		}
		toma := min(libre, restante)
		out[i].Cantidad -= toma
		clampReservas(&out[i], entity.EjeProveedor)
		restante -= toma
	}
	return Normalizar(out), nil
}

// ConsumirReservadoFIFO quita del stock cantidad unidades reservadas para una
// condicional concreta (venta del remanente de un retorno de cliente, o
// devolución física al proveedor): más antiguas primero. Falla con
// StockInsuficienteError si la condicional no tiene tantas unidades
// reservadas, sin mutar nada.
func ConsumirReservadoFIFO(lotes []entity.Lote, cantidad int, eje entity.EjeReserva, condicionalID string) ([]entity.Lote, error) {
	if cantidad < 0 {
		return nil, domain.ErrCantidadInvalida
	}
	if cantidad == 0 {
		return entity.CloneLotes(lotes), nil
	}
	reservado := ReservadoPorCondicional(lotes, eje, condicionalID)
	if reservado < cantidad {
		return nil, &domain.StockInsuficienteError{Disponible: reservado, Solicitado: cantidad}
	}

	otroEje := entity.EjeProveedor
	if eje == entity.EjeProveedor {
		otroEje = entity.EjeCliente
	}

	out := entity.CloneLotes(lotes)
	restante := cantidad
	for _, i := range ordenFIFO(out) {
		if restante == 0 {
			break
		}
		res := out[i].ReservadoPor(eje, condicionalID)
		if res <= 0 {
			continue
		}
		toma := min(res, restante)
		out[i].Liberar(eje, condicionalID, toma)
		out[i].Cantidad -= toma
		clampReservas(&out[i], otroEje)
		restante -= toma
	}
	return Normalizar(out), nil
}
