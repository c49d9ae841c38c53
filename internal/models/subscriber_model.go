package models

import "time"

type Subscriber struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PostLike struct {
	Slug       string    `db:"slug" json:"slug"`
	LikesCount int       `db:"likes_count" json:"likes"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
