package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edicionesgcc/poblar-ventas/internal/model"
)

func TestOrderNumberFromSubject(t *testing.T) {
	n, err := OrderNumberFromSubject("Nuevo pedido: #0001234")
	require.NoError(t, err)
	assert.Equal(t, 1234, n)

	_, err = OrderNumberFromSubject("Nuevo pedido: sin número")
	require.Error(t, err)

	// Menos de siete dígitos no es un número de pedido válido.
	_, err = OrderNumberFromSubject("Nuevo pedido: #123")
	require.Error(t, err)
}

func TestParseOrderFieldsCustomerName(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "spanish template",
			body: "Has recibido el siguiente pedido de Juan Pérez:\n",
			want: "Juan Pérez",
		},
		{
			name: "english template",
			body: "You received the following order from John Smith:\n",
			want: "John Smith",
		},
		{
			name: "english new order variant",
			body: "You received a new order from Jane Doe:\n",
			want: "Jane Doe",
		},
		{
			name: "whitespace runs collapse",
			body: "Has recibido el siguiente pedido de Juan\n  Carlos   Pérez:\n",
			want: "Juan Carlos Pérez",
		},
		{
			name: "missing name yields empty string",
			body: "Cuerpo sin plantilla conocida",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ParseOrderFields(tt.body)
			assert.Equal(t, tt.want, fields.CustomerName)
		})
	}
}

func TestParseOrderFieldsOrderNumber(t *testing.T) {
	fields := ParseOrderFields("Detalle\nOrder #0000042 confirmado\n")
	assert.Equal(t, "0000042", fields.OrderNumber)

	// La búsqueda de la línea no distingue mayúsculas.
	fields = ParseOrderFields("ORDER #7 listo\n")
	assert.Equal(t, "7", fields.OrderNumber)

	fields = ParseOrderFields("sin número acá\n")
	assert.Empty(t, fields.OrderNumber)
}

func TestParseOrderFieldsDate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *time.Time
	}{
		{
			name: "spanish month",
			body: "Pedido (14 marzo, 2026)",
			want: datePtr(2026, time.March, 14),
		},
		{
			name: "month match ignores case and accents",
			body: "Pedido (1 Séptiembre, 2026)",
			want: datePtr(2026, time.September, 1),
		},
		{
			name: "unknown month leaves the date nil",
			body: "Pedido (14 march, 2026)",
			want: nil,
		},
		{
			name: "no parenthesized date",
			body: "Pedido del 14/03/2026",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ParseOrderFields(tt.body)
			assert.Equal(t, tt.want, fields.OrderDate)
		})
	}
}

func TestDetectPayment(t *testing.T) {
	assert.Equal(t, model.PaymentPayPal, DetectPayment("total U$S 20"))
	assert.Equal(t, model.PaymentMercadoPago, DetectPayment("total AR$ 2.000"))
}

func TestDetectShipping(t *testing.T) {
	assert.Equal(t, model.ShippingCastillo, DetectShipping("Envío - Física Argentina"))
	assert.Equal(t, model.ShippingCastillo, DetectShipping("Entrega por Castillo"))
	assert.Equal(t, model.ShippingDigital, DetectShipping("Libro - Digital"))
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
