// Package validation contiene las comprobaciones de integridad previas al
// registro de una venta.
package validation

import (
	"errors"
	"fmt"

	"github.com/edicionesgcc/poblar-ventas/internal/model"
)

var (
	// ErrNoOrderNumber indica que el pedido quedó sin número válido.
	ErrNoOrderNumber = errors.New("no valid order number")
	// ErrNoCustomerName indica que el correo no trae el nombre del cliente.
	ErrNoCustomerName = errors.New("no customer name found in email")
	// ErrNoItems indica que no se extrajo ningún ítem del correo.
	ErrNoItems = errors.New("no items found to process for this order")
)

// ValidateOrder aplica la política de fallo temprano sobre un pedido parseado:
// cualquier campo estructural ausente o inválido aborta la corrida completa.
func ValidateOrder(o model.ParsedOrder) error {
	if o.OrderNumber <= 0 {
		return ErrNoOrderNumber
	}
	if o.CustomerName == "" {
		return ErrNoCustomerName
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}

	for i, item := range o.Items {
		if item.Name == "" {
			return fmt.Errorf("item %d has no name", i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d has invalid quantity: %d", i+1, item.Quantity)
		}
		if item.Price <= 0 {
			return fmt.Errorf("item %d has invalid price: %v", i+1, item.Price)
		}
	}

	return nil
}
