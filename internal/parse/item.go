package parse

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/edicionesgcc/poblar-ventas/internal/model"
)

// SentinelName es el nombre reservado que recibe un ítem cuando la línea no
// trae el delimitador " -". Es un valor de diseño, no un error.
const SentinelName = "Desconocido"

var (
	ErrNoCurrencySeparator = errors.New("item line missing currency separator")
	ErrNoPrice             = errors.New("item line missing price part")
	ErrInvalidPrice        = errors.New("item line has invalid price")
	ErrInvalidQuantity     = errors.New("item line has invalid quantity")
)

var (
	// Greedy a propósito: el nombre llega hasta el último " -" del segmento.
	reItemName = regexp.MustCompile(`^(.*) -`)
	reQuantity = regexp.MustCompile(`[xX×]\s*(\d+)`)
	reItemCode = regexp.MustCompile(`\(#([A-Z]{2,3})\s+([^)]+)\)`)
)

// ParseItemLine descompone una línea de ítem ya unida en sus campos.
//
// Si la línea no contiene "AR$" se asume "U$S" aunque ese token tampoco esté:
// es el comportamiento heredado de las plantillas y queda pendiente de
// definición de producto (ver DESIGN.md).
func ParseItemLine(line string) (model.ParsedItem, error) {
	currency := model.CurrencyUSD
	if strings.Contains(line, "AR$") {
		currency = model.CurrencyARS
	}

	left, right, found := strings.Cut(line, string(currency))
	if !found {
		return model.ParsedItem{}, ErrNoCurrencySeparator
	}

	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)
	if right == "" {
		return model.ParsedItem{}, ErrNoPrice
	}

	price, err := ParsePrice(right)
	if err != nil {
		return model.ParsedItem{}, fmt.Errorf("%w: %q", ErrInvalidPrice, right)
	}

	name := SentinelName
	if m := reItemName.FindStringSubmatch(left); m != nil {
		name = strings.TrimSpace(m[1])
	}

	quantity := 1
	if m := reQuantity.FindStringSubmatch(left); m != nil {
		quantity, _ = strconv.Atoi(m[1])
	}
	if quantity <= 0 {
		return model.ParsedItem{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	var code string
	if m := reItemCode.FindStringSubmatch(left); m != nil {
		code = m[1] + " " + m[2]
	}

	return model.ParsedItem{
		Name:     name,
		Code:     code,
		Quantity: quantity,
		Price:    price,
		Currency: currency,
	}, nil
}

// ParsePrice interpreta un importe con la convención local: los puntos son
// separadores de miles y la coma es el separador decimal ("1.234,56" → 1234.56).
func ParsePrice(raw string) (float64, error) {
	normalized := strings.ReplaceAll(raw, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")

	price, err := strconv.ParseFloat(strings.TrimSpace(normalized), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("non-positive price: %v", price)
	}
	return price, nil
}
