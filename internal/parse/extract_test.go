package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasSupportedCurrency(t *testing.T) {
	assert.True(t, HasSupportedCurrency("Libro A - Digital AR$ 2.000"))
	assert.True(t, HasSupportedCurrency("Book B - digital-en U$S 20"))
	assert.False(t, HasSupportedCurrency("Book B - digital-en EUR 20"))
}

func TestExtractItemLines(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "single item line",
			body: "Has recibido el siguiente pedido de Juan Pérez:\n\nLibro A - Digital x2 AR$ 2.000\n\nGracias",
			want: []string{"Libro A - Digital x2 AR$ 2.000"},
		},
		{
			name: "multiple items keep appearance order",
			body: "Libro A - Digital AR$ 1.000\nLibro B - Física Argentina AR$ 2.000\n",
			want: []string{"Libro A - Digital AR$ 1.000", "Libro B - Física Argentina AR$ 2.000"},
		},
		{
			name: "marker match is case insensitive",
			body: "Libro A - DIGITAL AR$ 1.000",
			want: []string{"Libro A - DIGITAL AR$ 1.000"},
		},
		{
			name: "price wrapped to next line after bare currency",
			body: "Libro A - Digital AR$\n1.500\nOtra línea",
			want: []string{"Libro A - Digital AR$ 1.500"},
		},
		{
			name: "currency wrapped entirely to next line",
			body: "Book B - digital-en\nU$S 20",
			want: []string{"Book B - digital-en U$S 20"},
		},
		{
			name: "bare currency not followed by amount stays split",
			body: "Libro A - Digital AR$\nsin precio acá",
			want: []string{"Libro A - Digital AR$"},
		},
		{
			name: "already priced line does not swallow the next one",
			body: "Libro A - Digital AR$ 1.000\n2.000",
			want: []string{"Libro A - Digital AR$ 1.000"},
		},
		{
			name: "non item lines are dropped silently",
			body: "Hola\nTotal AR$ 3.000\nSaludos",
			want: nil,
		},
		{
			name: "empty body",
			body: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractItemLines(tt.body)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractItemLinesSkipsMergedLine(t *testing.T) {
	// La línea unida no debe procesarse dos veces.
	body := "Libro A - Digital AR$\n1.500\nLibro B - Digital AR$ 500"
	got := ExtractItemLines(body)
	assert.Equal(t, []string{"Libro A - Digital AR$ 1.500", "Libro B - Digital AR$ 500"}, got)
}
