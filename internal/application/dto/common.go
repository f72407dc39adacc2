package dto

const (
	// DefaultLimit tamaño de página cuando no se indica.
	DefaultLimit = 100
	// MaxLimit tope del tamaño de página.
	MaxLimit = 1000
)

// PageRequest paginación para listados (?limit=&skip=).
type PageRequest struct {
	Limit int `query:"limit"`
	Skip  int `query:"skip"`
}

// Normalize acota Limit a [1, MaxLimit] (0 = DefaultLimit) y Skip a >= 0.
func (p PageRequest) Normalize() PageRequest {
	switch {
	case p.Limit == 0:
		p.Limit = DefaultLimit
	case p.Limit < 1:
		p.Limit = 1
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Skip    int  `json:"skip"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// NewPageResponse arma los metadatos a partir de la página pedida, el total y los
// elementos devueltos.
func NewPageResponse(p PageRequest, total, returned int) PageResponse {
	return PageResponse{
		Limit:   p.Limit,
		Skip:    p.Skip,
		Total:   total,
		HasMore: p.Skip+returned < total,
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code             string   `json:"code"`
	Message          string   `json:"message"`
	MissingFields    []string `json:"missingFields,omitempty"`
	MissingDocuments []string `json:"missingDocuments,omitempty"`
}
