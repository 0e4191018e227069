package condicional

import (
	"errors"

	"github.com/tu-usuario/consignado-api/internal/domain"
)

// maxReintentos intentos del ciclo leer-calcular-escribir ante ErrConflict
// (la versión del producto cambió entre la lectura y la escritura).
const maxReintentos = 3

// conReintento ejecuta fn reintentando solo ante conflicto de versión.
func conReintento(fn func() error) error {
	var err error
	for i := 0; i < maxReintentos; i++ {
		err = fn()
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}
