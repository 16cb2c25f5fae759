// Package sheets implementa la planilla de ventas y el padrón de clientes
// sobre Google Sheets, con la misma disposición de columnas que usa la
// planilla histórica.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/edicionesgcc/poblar-ventas/internal/model"
)

const (
	ventasSheet   = "Ventas"
	clientesSheet = "Datos Cliente"

	// Columna que se recorre para ubicar la primera fila libre de ventas.
	anchorColumn = "H"
	// Celda con la cotización del dólar que mantiene la planilla.
	rateCell = "O1"
	// Desplazamientos fijos de los dos fragmentos de la fila de venta.
	saleStartColumn  = "G"
	priceStartColumn = "N"
	// Columna de nombres del padrón de clientes.
	namesColumn = "B"

	dateLayout = "02/01/2006"
)

// ErrInvalidRate indica que la celda de cotización está vacía o no es positiva.
var ErrInvalidRate = errors.New("invalid or missing dollar rate in sheet")

// Client encapsula el acceso a la planilla de cálculo compartida.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// NewClient crea el cliente de Sheets para la planilla indicada.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Ledger expone la hoja "Ventas" como destino de filas de venta.
func (c *Client) Ledger() *Ledger {
	return &Ledger{c: c}
}

// Registry expone la hoja "Datos Cliente" como padrón de clientes.
func (c *Client) Registry() *Registry {
	return &Registry{c: c}
}

// Ledger escribe las filas de venta en la hoja "Ventas".
type Ledger struct {
	c *Client
}

// AppendSale escribe los dos fragmentos de la fila de venta en la primera
// fila libre, determinada recorriendo la columna ancla.
func (l *Ledger) AppendSale(ctx context.Context, row model.SaleRow) error {
	resp, err := l.c.svc.Spreadsheets.Values.
		Get(l.c.spreadsheetID, fmt.Sprintf("%s!%s:%s", ventasSheet, anchorColumn, anchorColumn)).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("scan anchor column: %w", err)
	}

	target := FirstBlankRow(resp.Values)
	date := row.OrderDate.Format(dateLayout)

	initial := []interface{}{row.OrderNumber, row.CustomerName, row.Quantity, row.ItemName}
	final := []interface{}{row.PricePerUnit, row.DiscountPct, date, string(row.Shipping), date, date, string(row.Payment)}

	for _, frag := range []struct {
		column string
		values []interface{}
	}{
		{saleStartColumn, initial},
		{priceStartColumn, final},
	} {
		_, err := l.c.svc.Spreadsheets.Values.
			Update(l.c.spreadsheetID,
				fmt.Sprintf("%s!%s%d", ventasSheet, frag.column, target),
				&gsheets.ValueRange{Values: [][]interface{}{frag.values}}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write sale row at %s%d: %w", frag.column, target, err)
		}
	}

	return nil
}

// ExchangeRate lee la cotización del dólar de la celda fija de la planilla.
func (l *Ledger) ExchangeRate(ctx context.Context) (float64, error) {
	resp, err := l.c.svc.Spreadsheets.Values.
		Get(l.c.spreadsheetID, fmt.Sprintf("%s!%s", ventasSheet, rateCell)).
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read rate cell: %w", err)
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return 0, ErrInvalidRate
	}

	rate, err := CellFloat(resp.Values[0][0])
	if err != nil || rate <= 0 {
		return 0, ErrInvalidRate
	}
	return rate, nil
}

// Registry lee y agrega clientes en la hoja "Datos Cliente".
type Registry struct {
	c *Client
}

// ListNames devuelve los nombres ya registrados, sin el encabezado. La
// comparación posterior es por igualdad exacta, sin normalizar.
func (r *Registry) ListNames(ctx context.Context) ([]string, error) {
	resp, err := r.c.svc.Spreadsheets.Values.
		Get(r.c.spreadsheetID, fmt.Sprintf("%s!%s:%s", clientesSheet, namesColumn, namesColumn)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read customer names: %w", err)
	}

	var names []string
	for i, cellRow := range resp.Values {
		if i == 0 {
			continue // encabezado
		}
		if len(cellRow) == 0 {
			continue
		}
		if name, ok := cellRow[0].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Append agrega una fila de cliente con el orden fijo de columnas del padrón.
func (r *Registry) Append(ctx context.Context, rec model.CustomerRecord) error {
	values := []interface{}{"", rec.Name, rec.Alias, rec.Email, rec.TaxID, rec.Phone, rec.Address}

	_, err := r.c.svc.Spreadsheets.Values.
		Append(r.c.spreadsheetID, clientesSheet,
			&gsheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append customer %s: %w", rec.Name, err)
	}
	return nil
}

// FirstBlankRow devuelve el número (base 1) de la primera fila libre según
// las celdas no vacías de la columna recorrida.
func FirstBlankRow(values [][]interface{}) int {
	occupied := 0
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		if s, ok := row[0].(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		occupied++
	}
	return occupied + 1
}

// CellFloat interpreta el valor de una celda como número.
func CellFloat(cell interface{}) (float64, error) {
	switch v := cell.(type) {
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
	default:
		return 0, fmt.Errorf("unsupported cell type %T", cell)
	}
}
