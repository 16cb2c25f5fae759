// Package model contiene las entidades de dominio del procesador de ventas.
package model

import "time"

// Currency identifica la moneda detectada en una línea de ítem.
type Currency string

const (
	CurrencyARS Currency = "AR$"
	CurrencyUSD Currency = "U$S"
)

// PaymentMethod describe el medio de pago que se registra en la planilla de ventas.
type PaymentMethod string

const (
	PaymentMercadoPago PaymentMethod = "AR$ Mercado Pago"
	PaymentPayPal      PaymentMethod = "U$S Pay Pal"
)

// ShippingMethod describe el método de envío que se registra en la planilla de
// ventas. Los valores son los literales históricos de la planilla.
type ShippingMethod string

const (
	ShippingDigital  ShippingMethod = "Digital"
	ShippingCastillo ShippingMethod = "Castillo"
)

// ParsedItem representa un ítem vendido extraído de una línea de ítem del correo.
type ParsedItem struct {
	Name     string
	Code     string
	Quantity int
	Price    float64
	Currency Currency
}

// ParsedOrder representa un pedido completo extraído de un correo de notificación.
type ParsedOrder struct {
	OrderNumber  int
	CustomerName string
	OrderDate    *time.Time
	Payment      PaymentMethod
	Shipping     ShippingMethod
	Items        []ParsedItem
}

// CustomerRecord contiene los datos de facturación de un cliente.
type CustomerRecord struct {
	TaxID   string
	Name    string
	Alias   string
	Address string
	Phone   string
	Email   string
}

// SaleRow es la fila que se agrega a la planilla de ventas por cada ítem vendido.
type SaleRow struct {
	OrderNumber  int
	CustomerName string
	Quantity     int
	ItemName     string
	PricePerUnit float64
	DiscountPct  float64
	OrderDate    time.Time
	Shipping     ShippingMethod
	Payment      PaymentMethod
}
