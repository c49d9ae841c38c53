package models

import "time"

type Book struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Label       string    `db:"label" json:"label,omitempty"`
	Description string    `db:"description" json:"description"`
	BookURL     string    `db:"book_url" json:"book_url"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
