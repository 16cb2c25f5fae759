package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/edicionesgcc/poblar-ventas/internal/model"
)

// OrderFields agrupa los campos del pedido extraídos del cuerpo del correo.
// OrderNumber queda vacío si el cuerpo no lo menciona; el asunto es la fuente
// autoritativa del número y este campo es solo de diagnóstico.
type OrderFields struct {
	OrderNumber  string
	CustomerName string
	OrderDate    *time.Time
}

var (
	reSubjectOrder = regexp.MustCompile(`#(\d{7})`)
	reDigitsRun    = regexp.MustCompile(`#(\d+)`)
	reCustomerEN   = regexp.MustCompile(`(?i)received (?:the following order|a new order) from ([\s\S]*?):`)
	reCustomerES   = regexp.MustCompile(`(?i)Has recibido el siguiente pedido de ([\s\S]*?):`)
	reOrderDate    = regexp.MustCompile(`\(\s*(\d{1,2})\s+([a-zA-Zñáéíóú]+),\s*(\d{4})\s*\)`)
	reSpaceRun     = regexp.MustCompile(`\s+`)
)

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// accentFolder descompone y descarta los diacríticos para comparar nombres de
// mes sin importar tildes.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// OrderNumberFromSubject extrae el número de pedido de siete dígitos del
// asunto. Su ausencia es un error duro: sin número no hay fila de venta.
func OrderNumberFromSubject(subject string) (int, error) {
	m := reSubjectOrder.FindStringSubmatch(subject)
	if m == nil {
		return 0, fmt.Errorf("no valid order number found in subject %q", subject)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("no valid order number found in subject %q", subject)
	}
	return n, nil
}

// ParseOrderFields extrae número de pedido, nombre del cliente y fecha del
// pedido del cuerpo del correo. Los tres campos pueden faltar; el llamador
// decide cuáles son obligatorios.
func ParseOrderFields(body string) OrderFields {
	var fields OrderFields

	for _, line := range splitTrimmedLines(body) {
		if line == "" || !strings.Contains(strings.ToLower(line), "order #") {
			continue
		}
		if m := reDigitsRun.FindStringSubmatch(line); m != nil {
			fields.OrderNumber = m[1]
		}
		break
	}

	m := reCustomerEN.FindStringSubmatch(body)
	if m == nil {
		m = reCustomerES.FindStringSubmatch(body)
	}
	if m != nil {
		fields.CustomerName = strings.TrimSpace(reSpaceRun.ReplaceAllString(m[1], " "))
	}

	fields.OrderDate = parseOrderDate(body)

	return fields
}

// parseOrderDate busca la fecha entre paréntesis "(día mes, año)" con el mes
// en español. Un mes fuera del léxico deja la fecha en nil: el llamador usa la
// fecha actual en su lugar.
func parseOrderDate(body string) *time.Time {
	m := reOrderDate.FindStringSubmatch(body)
	if m == nil {
		return nil
	}

	month, ok := spanishMonths[foldAccents(strings.ToLower(m[2]))]
	if !ok {
		return nil
	}

	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &date
}

// DetectPayment infiere el medio de pago según la moneda presente en el cuerpo.
func DetectPayment(body string) model.PaymentMethod {
	if strings.Contains(body, "U$S") {
		return model.PaymentPayPal
	}
	return model.PaymentMercadoPago
}

// DetectShipping infiere el método de envío según la plantilla del cuerpo.
func DetectShipping(body string) model.ShippingMethod {
	if strings.Contains(body, "Física Argentina") || strings.Contains(body, "Castillo") {
		return model.ShippingCastillo
	}
	return model.ShippingDigital
}

func foldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return folded
}
