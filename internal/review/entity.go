// AngelaMos | 2026
// entity.go

package review

import (
	"time"
)

type Review struct {
	ID       string    `db:"id"`
	TitleID  string    `db:"title_id"`
	AuthorID string    `db:"author_id"`
	Author   string    `db:"author"`
	Text     string    `db:"text"`
	Score    int       `db:"score"`
	PubDate  time.Time `db:"pub_date"`
}

func (r *Review) OwnerID() string {
	return r.AuthorID
}

type Comment struct {
	ID       string    `db:"id"`
	ReviewID string    `db:"review_id"`
	AuthorID string    `db:"author_id"`
	Author   string    `db:"author"`
	Text     string    `db:"text"`
	PubDate  time.Time `db:"pub_date"`
}

func (c *Comment) OwnerID() string {
	return c.AuthorID
}
