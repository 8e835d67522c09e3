// AngelaMos | 2026
// entity.go

package catalog

// Term is a category or a genre: a display name plus a unique slug.
type Term struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

type Title struct {
	ID          string   `db:"id"`
	Name        string   `db:"name"`
	Year        int      `db:"year"`
	Description string   `db:"description"`
	CategoryID  string   `db:"category_id"`
	Rating      *float64 `db:"rating"`

	Category Term   `db:"category"`
	Genres   []Term `db:"-"`
}

// titleGenre is one row of the title_genres join, used to attach genres
// to a page of titles in a single query.
type titleGenre struct {
	TitleID string `db:"title_id"`
	Term
}
