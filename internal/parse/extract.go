// Package parse implementa la extracción de datos estructurados desde los
// correos de notificación de pedidos del marketplace (plantillas en español
// e inglés).
package parse

import (
	"regexp"
	"strings"
)

var (
	// Marcadores que identifican una línea de ítem en las dos plantillas.
	reItemMarker = regexp.MustCompile(`(?i)- Digital|digital-en|- Física Argentina`)
	// Token de moneda seguido de un importe, ej. "AR$ 1.500".
	rePricedCurrency = regexp.MustCompile(`(AR\$|U\$S)\s*[\d.,]+`)
	// Línea compuesta únicamente por dígitos y separadores.
	reBareAmount = regexp.MustCompile(`^[\d.,]+$`)
	// Línea que comienza con un token de moneda.
	reLeadingCurrency = regexp.MustCompile(`^(AR\$|U\$S)`)
)

// HasSupportedCurrency indica si el cuerpo contiene al menos una de las
// monedas soportadas. Un correo sin ninguna de las dos se descarta y se
// etiqueta, no es un error.
func HasSupportedCurrency(body string) bool {
	return strings.Contains(body, "AR$") || strings.Contains(body, "U$S")
}

// ExtractItemLines recorre el cuerpo y devuelve las líneas de ítem en orden de
// aparición. Cuando el precio o la moneda quedaron cortados por un salto de
// línea, la línea siguiente se une a la actual y se saltea.
func ExtractItemLines(body string) []string {
	lines := splitTrimmedLines(body)

	var items []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "" || !reItemMarker.MatchString(line) {
			continue
		}

		itemLine := line
		switch {
		// La línea termina en el token de moneda sin importe: el precio quedó
		// en la línea siguiente.
		case i+1 < len(lines) &&
			(strings.HasSuffix(line, "AR$") || strings.HasSuffix(line, "U$S")) &&
			!rePricedCurrency.MatchString(line):
			if next := lines[i+1]; next != "" && reBareAmount.MatchString(next) {
				itemLine = line + " " + next
				i++
			}
		// La línea no trae moneda: la siguiente empieza con el token completo.
		case i+1 < len(lines) &&
			!strings.Contains(line, "AR$") && !strings.Contains(line, "U$S"):
			if next := lines[i+1]; next != "" && reLeadingCurrency.MatchString(next) {
				itemLine = line + " " + next
				i++
			}
		}

		items = append(items, itemLine)
	}

	return items
}

func splitTrimmedLines(body string) []string {
	raw := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
