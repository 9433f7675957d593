// Package cartera computes the derived state of receivable and payable
// documents: what has been paid, what is still owed, when it falls due and
// whether it is current, overdue or settled. Nothing here touches storage;
// every value is recomputed from the raw document and its payments.
package cartera

// Estado is the aging status of an invoice. It is never persisted.
type Estado string

const (
	Vigente Estado = "VIGENTE"
	Vencida Estado = "VENCIDA"
	Pagada  Estado = "PAGADA"
)

// Valido reports whether e is one of the three known labels.
func (e Estado) Valido() bool {
	switch e {
	case Vigente, Vencida, Pagada:
		return true
	}
	return false
}
