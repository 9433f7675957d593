package dto

const (
	LimiteDefault = 20
	LimiteMaximo  = 100
)

// Paginacion is the offset/limit pair every list endpoint accepts.
type Paginacion struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

// Normalizada clamps negative offsets and applies the default and maximum
// page sizes.
func (p Paginacion) Normalizada() Paginacion {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = LimiteDefault
	}
	if p.Limit > LimiteMaximo {
		p.Limit = LimiteMaximo
	}
	return p
}

// Pagina is the envelope of every paginated response. HasMore is true when
// the page came back full, so a final page that is exactly full still
// reports true and the next request returns an empty page.
type Pagina[T any] struct {
	Datos   []T  `json:"datos"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

func NuevaPagina[T any](datos []T, p Paginacion) Pagina[T] {
	p = p.Normalizada()
	if datos == nil {
		datos = []T{}
	}
	return Pagina[T]{
		Datos:   datos,
		Offset:  p.Offset,
		Limit:   p.Limit,
		HasMore: len(datos) == p.Limit,
	}
}
