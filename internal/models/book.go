package models

import "github.com/google/uuid"

type Book struct {
	ID         int64     `json:"id"`
	UserID     uuid.UUID `json:"-"`
	Title      string    `json:"title"`
	Author     *string   `json:"author"`
	Status     string    `json:"status"`
	PagesTotal *int      `json:"pages_total"`
}

type CreateBookRequest struct {
	Title      string  `json:"title"`
	Author     *string `json:"author"`
	PagesTotal *int    `json:"pages_total"`
}

type UpdateBookRequest struct {
	Title      *string `json:"title"`
	Author     *string `json:"author"`
	Status     *string `json:"status"`
	PagesTotal *int    `json:"pages_total"`
}

// BookProgress is a book enriched with how far the reader has gotten,
// shown on the dashboard.
type BookProgress struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Author         *string `json:"author"`
	Status         string  `json:"status"`
	PagesTotal     *int    `json:"pages_total"`
	PagesReadTotal int     `json:"pages_read_total"`
}
