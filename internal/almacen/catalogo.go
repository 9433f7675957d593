package almacen

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var tiposCelofanMicraje = []string{"mordaza", "lateral", "pegol", "cenefa + pegol"}

var tiposCelofanGramaje = []string{
	"100gr corta", "100gr larga", "150gr", "250gr", "500gr",
	"1kg", "1.5kg", "2kg", "2.5kg", "3kg",
}

var tiposPolietileno = []string{"negra", "semi natural", "virgen", "color"}

var catalogo = map[Material]map[string][]string{
	Celofan: {
		"micraje": tiposCelofanMicraje,
		"gramaje": tiposCelofanGramaje,
	},
	Polietileno: {
		"bobina": tiposPolietileno,
		"bolsa":  tiposPolietileno,
	},
}

// Presentaciones returns the presentations allowed for m, sorted.
func Presentaciones(m Material) []string {
	out := make([]string, 0, len(catalogo[m]))
	for p := range catalogo[m] {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Tipos returns the product types allowed for a material and presentation,
// or nil when the pair is unknown.
func Tipos(m Material, presentacion string) []string {
	tipos := catalogo[m][presentacion]
	if tipos == nil {
		return nil
	}
	return append([]string(nil), tipos...)
}

// Catalogo returns a copy of the presentation → types table of m.
func Catalogo(m Material) map[string][]string {
	out := make(map[string][]string, len(catalogo[m]))
	for p, t := range catalogo[m] {
		out[p] = append([]string(nil), t...)
	}
	return out
}

// TipoValido reports whether tipo belongs to the material and presentation.
func TipoValido(m Material, presentacion, tipo string) bool {
	for _, t := range catalogo[m][presentacion] {
		if t == tipo {
			return true
		}
	}
	return false
}

// NombreProducto builds the display name
// "<Material> <presentacion>[ <ancho>cm][x<largo>cm][ <micraje>μm] <tipo>".
func NombreProducto(m Material, presentacion, tipo string, ancho, largo, micraje *decimal.Decimal) string {
	var b strings.Builder
	b.WriteString(m.Etiqueta())
	b.WriteString(" ")
	b.WriteString(presentacion)
	if ancho != nil {
		b.WriteString(" " + ancho.String() + "cm")
	}
	if largo != nil {
		if ancho == nil {
			b.WriteString(" ")
		}
		b.WriteString("x" + largo.String() + "cm")
	}
	if micraje != nil {
		b.WriteString(" " + micraje.String() + "μm")
	}
	b.WriteString(" ")
	b.WriteString(tipo)
	return b.String()
}
