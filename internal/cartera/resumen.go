package cartera

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Bucket accumulates the outstanding amount and document count of one Estado.
type Bucket struct {
	Monto    decimal.Decimal `json:"monto"`
	Cantidad int             `json:"cantidad"`
}

// Resumen is the portfolio summary shown on the receivable and payable pages.
type Resumen struct {
	TotalPendiente  decimal.Decimal   `json:"total_pendiente"`
	PorEstado       map[Estado]Bucket `json:"por_estado"`
	TotalDocumentos int               `json:"total_documentos"`
	Pagados         int               `json:"pagados"`
}

// Vigentes returns the bucket of current documents.
func (r Resumen) Vigentes() Bucket { return r.PorEstado[Vigente] }

// Vencidas returns the bucket of overdue documents.
func (r Resumen) Vencidas() Bucket { return r.PorEstado[Vencida] }

// NuevoResumen returns an empty summary with both open buckets present.
func NuevoResumen() Resumen {
	return Resumen{
		TotalPendiente: decimal.Zero,
		PorEstado: map[Estado]Bucket{
			Vigente: {Monto: decimal.Zero},
			Vencida: {Monto: decimal.Zero},
		},
	}
}

// Resumir folds aged documents into a Resumen. Only documents with a
// positive balance add to the outstanding total and the status buckets.
func Resumir(items []Antiguedad) Resumen {
	r := NuevoResumen()
	for _, it := range items {
		r.Agregar(it)
	}
	return r
}

// Agregar adds a single aged document to r.
func (r *Resumen) Agregar(it Antiguedad) {
	r.TotalDocumentos++
	if !it.Saldo.IsPositive() {
		r.Pagados++
		return
	}
	r.TotalPendiente = r.TotalPendiente.Add(it.Saldo)
	b := r.PorEstado[it.Estado]
	b.Monto = b.Monto.Add(it.Saldo)
	b.Cantidad++
	r.PorEstado[it.Estado] = b
}

// ConContraparte pairs an aged document with the client or supplier it
// belongs to.
type ConContraparte struct {
	ContraparteID string
	Nombre        string
	Antiguedad    Antiguedad
}

// TotalContraparte is the outstanding position with one client or supplier.
type TotalContraparte struct {
	ContraparteID string          `json:"contraparte_id"`
	Nombre        string          `json:"nombre"`
	Saldo         decimal.Decimal `json:"saldo"`
	Vencido       decimal.Decimal `json:"vencido"`
	Documentos    int             `json:"documentos"`
}

// AgruparPorContraparte totals open balances per counterparty, largest
// balance first. Settled documents are skipped.
func AgruparPorContraparte(items []ConContraparte) []TotalContraparte {
	idx := make(map[string]int)
	var out []TotalContraparte
	for _, it := range items {
		if !it.Antiguedad.Saldo.IsPositive() {
			continue
		}
		i, ok := idx[it.ContraparteID]
		if !ok {
			i = len(out)
			idx[it.ContraparteID] = i
			out = append(out, TotalContraparte{
				ContraparteID: it.ContraparteID,
				Nombre:        it.Nombre,
				Saldo:         decimal.Zero,
				Vencido:       decimal.Zero,
			})
		}
		t := &out[i]
		t.Saldo = t.Saldo.Add(it.Antiguedad.Saldo)
		if it.Antiguedad.Estado == Vencida {
			t.Vencido = t.Vencido.Add(it.Antiguedad.Saldo)
		}
		t.Documentos++
	}
	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].Saldo.Cmp(out[b].Saldo); c != 0 {
			return c > 0
		}
		return out[a].Nombre < out[b].Nombre
	})
	return out
}
