package parse

import (
	"regexp"
	"strings"

	"github.com/edicionesgcc/poblar-ventas/internal/model"
)

const customerBlockLabel = "DNI o ID:"

// reCustomerBlock delimita el bloque de datos de facturación: arranca en la
// etiqueta y se extiende mientras los caracteres pertenezcan al conjunto que
// usan las plantillas del marketplace.
var reCustomerBlock = regexp.MustCompile(`DNI o ID:[\sáéíóúñÁÉÍÓÚçã\w.@´()+°,\-/*]*`)

// boilerplate reúne las líneas fijas de las plantillas que no aportan datos
// del cliente y se descartan antes de asignar posiciones.
var boilerplate = map[string]struct{}{
	"DIRECCIÓN DE FACTURACIÓN":                 {},
	"BILLING ADDRESS":                          {},
	"----------------------------------------": {},
	"Felicitaciones por la venta.":             {},
	"Ediciones GCC":                            {},
}

// Asignación posicional del bloque ya filtrado. Las posiciones son frágiles a
// propósito: reflejan el orden fijo de las plantillas y se verifican con
// chequeos de rango explícitos.
//
//	0          → documento (con la etiqueta "DNI o ID:" adelante)
//	1          → candidato a nombre (si no coincide, gana el nombre conocido)
//	2          → alias, solo en la disposición de tres campos
//	3..len-3   → líneas de domicilio
//	len-2      → teléfono
//	len-1      → correo
const (
	posTaxID = 0
	posName  = 1
	posAlias = 2

	addressStart = 3
	tailFields   = 2
)

// ParseCustomerBlock localiza el bloque de facturación y lo descompone en los
// campos del cliente. El segundo valor es false cuando el correo no trae el
// bloque; el llamador degrada a un registro con solo el nombre.
func ParseCustomerBlock(body, knownName string) (model.CustomerRecord, bool) {
	block := reCustomerBlock.FindString(body)
	if block == "" {
		return model.CustomerRecord{}, false
	}

	var fields []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, skip := boilerplate[line]; skip {
			continue
		}
		fields = append(fields, line)
	}

	rec := model.CustomerRecord{
		TaxID: strings.TrimSpace(strings.TrimPrefix(fieldAt(fields, posTaxID), customerBlockLabel)),
		Name:  knownName,
	}

	// El candidato solo se acepta si coincide textualmente con el nombre ya
	// conocido; ante cualquier diferencia gana el nombre conocido.
	if candidate := fieldAt(fields, posName); candidate == knownName {
		rec.Name = candidate
	}

	// Disposición de tres campos: documento, nombre y alias. Si el último
	// elemento duplica el nombre conocido, el alias cae en la posición 1.
	if len(fields) == addressStart {
		if fieldAt(fields, posAlias) == knownName {
			rec.Alias = fieldAt(fields, posName)
		} else {
			rec.Alias = fieldAt(fields, posAlias)
		}
	}

	// Teléfono y correo solo cuando la cola no pisa las posiciones de cabecera.
	if len(fields)-tailFields >= posAlias {
		rec.Phone = fieldAt(fields, len(fields)-2)
		rec.Email = fieldAt(fields, len(fields)-1)
	}

	if len(fields) > addressStart+tailFields {
		rec.Address = strings.Join(fields[addressStart:len(fields)-tailFields], "\n")
	}

	return rec, true
}

func fieldAt(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
