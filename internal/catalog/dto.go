// AngelaMos | 2026
// dto.go

package catalog

type CreateTermRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type TermResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CreateTitleRequest struct {
	Name        string   `json:"name"        validate:"required,max=256"`
	Year        *int     `json:"year"        validate:"required,min=0"`
	Description string   `json:"description"`
	Category    string   `json:"category"    validate:"required,slug"`
	Genre       []string `json:"genre"       validate:"dive,slug"`
}

// UpdateTitleRequest is a partial update; nil fields are left as stored.
// A non-nil Genre replaces the whole set.
type UpdateTitleRequest struct {
	Name        *string   `json:"name,omitempty"        validate:"omitempty,max=256"`
	Year        *int      `json:"year,omitempty"        validate:"omitempty,min=0"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"    validate:"omitempty,slug"`
	Genre       *[]string `json:"genre,omitempty"       validate:"omitempty,dive,slug"`
}

type TitleResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Year        int            `json:"year"`
	Rating      *float64       `json:"rating"`
	Description string         `json:"description"`
	Genre       []TermResponse `json:"genre"`
	Category    TermResponse   `json:"category"`
}

type ListTermsParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p *ListTermsParams) Normalize() {
	p.Page, p.PageSize = normalizePage(p.Page, p.PageSize)
}

func (p *ListTermsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TitleFilter narrows a title listing. Name matches as a substring,
// Category and Genre by slug, Year exactly when non-zero.
type TitleFilter struct {
	Page     int
	PageSize int
	Name     string
	Category string
	Genre    string
	Year     int
}

func (f *TitleFilter) Normalize() {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
}

func (f *TitleFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func ToTermResponse(t *Term) TermResponse {
	return TermResponse{Name: t.Name, Slug: t.Slug}
}

func ToTermResponseList(terms []Term) []TermResponse {
	responses := make([]TermResponse, 0, len(terms))
	for _, t := range terms {
		responses = append(responses, ToTermResponse(&t))
	}
	return responses
}

func ToTitleResponse(t *Title) TitleResponse {
	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       ToTermResponseList(t.Genres),
		Category:    ToTermResponse(&t.Category),
	}
}

func ToTitleResponseList(titles []Title) []TitleResponse {
	responses := make([]TitleResponse, 0, len(titles))
	for _, t := range titles {
		responses = append(responses, ToTitleResponse(&t))
	}
	return responses
}
