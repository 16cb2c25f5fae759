package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edicionesgcc/poblar-ventas/internal/model"
)

func TestParseItemLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    model.ParsedItem
		wantErr error
	}{
		{
			name: "spanish digital item with quantity",
			line: "Libro A - Digital x2 AR$ 2.000",
			want: model.ParsedItem{
				Name:     "Libro A",
				Quantity: 2,
				Price:    2000,
				Currency: model.CurrencyARS,
			},
		},
		{
			name: "quantity defaults to one",
			line: "Libro B - Digital AR$ 50,00",
			want: model.ParsedItem{
				Name:     "Libro B",
				Quantity: 1,
				Price:    50,
				Currency: model.CurrencyARS,
			},
		},
		{
			name: "multiplication sign quantity",
			line: "Producto X - Digital ×3 AR$ 100",
			want: model.ParsedItem{
				Name:     "Producto X",
				Quantity: 3,
				Price:    100,
				Currency: model.CurrencyARS,
			},
		},
		{
			name: "usd item",
			line: "Book C - digital-en x1 U$S 20,50",
			want: model.ParsedItem{
				Name:     "Book C",
				Quantity: 1,
				Price:    20.50,
				Currency: model.CurrencyUSD,
			},
		},
		{
			name: "thousands and decimal separators",
			line: "Libro D - Digital AR$ 1.234,56",
			want: model.ParsedItem{
				Name:     "Libro D",
				Quantity: 1,
				Price:    1234.56,
				Currency: model.CurrencyARS,
			},
		},
		{
			name: "product code",
			line: "Libro E (#GCC Tapa dura) - Digital AR$ 800",
			want: model.ParsedItem{
				Name:     "Libro E (#GCC Tapa dura)",
				Code:     "GCC Tapa dura",
				Quantity: 1,
				Price:    800,
				Currency: model.CurrencyARS,
			},
		},
		{
			name: "name falls back to the sentinel without delimiter",
			line: "Producto Y x2 AR$ 100",
			want: model.ParsedItem{
				Name:     SentinelName,
				Quantity: 2,
				Price:    100,
				Currency: model.CurrencyARS,
			},
		},
		{
			name: "name reaches the last dash delimiter",
			line: "Libro F - edición 2024 - Digital AR$ 900",
			want: model.ParsedItem{
				Name:     "Libro F - edición 2024",
				Quantity: 1,
				Price:    900,
				Currency: model.CurrencyARS,
			},
		},
		{
			name:    "missing currency separator",
			line:    "Libro G - Digital 1.000",
			wantErr: ErrNoCurrencySeparator,
		},
		{
			name:    "missing price part",
			line:    "Libro H - Digital AR$",
			wantErr: ErrNoPrice,
		},
		{
			name:    "non numeric price",
			line:    "Libro I - Digital AR$ abc",
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "zero price",
			line:    "Libro J - Digital AR$ 0,00",
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "zero quantity",
			line:    "Libro K - Digital x0 AR$ 100",
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseItemLine(tt.line)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Comportamiento heredado: sin "AR$" la línea se trata como "U$S" aunque ese
// token tampoco aparezca. Una línea sin ninguno de los dos falla recién al
// cortar por el separador de moneda.
func TestParseItemLineAssumesUSDWithoutToken(t *testing.T) {
	_, err := ParseItemLine("Book L - digital-en 20,00")
	require.ErrorIs(t, err, ErrNoCurrencySeparator)

	item, err := ParseItemLine("Book L - digital-en U$S 20,00")
	require.NoError(t, err)
	assert.Equal(t, model.CurrencyUSD, item.Currency)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "1.234,56", want: 1234.56},
		{raw: "50,00", want: 50},
		{raw: "2.000", want: 2000},
		{raw: "100", want: 100},
		{raw: "0,00", wantErr: true},
		{raw: "-10", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
