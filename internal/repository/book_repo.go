package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studylight-backend/internal/models"
)

type BookRepo struct {
	pool *pgxpool.Pool
}

func NewBookRepo(pool *pgxpool.Pool) *BookRepo {
	return &BookRepo{pool: pool}
}

func (r *BookRepo) Create(ctx context.Context, b *models.Book) error {
	query := `INSERT INTO books (user_id, title, author, status, pages_total)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	return r.pool.QueryRow(ctx, query,
		b.UserID, b.Title, b.Author, b.Status, b.PagesTotal,
	).Scan(&b.ID)
}

func (r *BookRepo) GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Book, error) {
	b := &models.Book{}
	query := `SELECT id, user_id, title, author, status, pages_total
		FROM books WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&b.ID, &b.UserID, &b.Title, &b.Author, &b.Status, &b.PagesTotal,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BookRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Book, error) {
	query := `SELECT id, user_id, title, author, status, pages_total
		FROM books WHERE user_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]*models.Book, 0)
	for rows.Next() {
		b := &models.Book{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.Author, &b.Status, &b.PagesTotal); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookRepo) Update(ctx context.Context, b *models.Book) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE books SET title = $1, author = $2, status = $3, pages_total = $4
		 WHERE id = $5 AND user_id = $6`,
		b.Title, b.Author, b.Status, b.PagesTotal, b.ID, b.UserID,
	)
	return err
}

// ListActiveWithProgress returns the user's active books with total pages
// read, for the dashboard.
func (r *BookRepo) ListActiveWithProgress(ctx context.Context, userID uuid.UUID) ([]models.BookProgress, error) {
	query := `
		SELECT b.id, b.title, b.author, b.status, b.pages_total,
			COALESCE((
				SELECT COALESCE(MAX(p.page_end), SUM(p.pages_read), 0)
				FROM reading_parts p
				WHERE p.book_id = b.id AND p.user_id = $1
			), 0)
		FROM books b
		WHERE b.user_id = $1 AND b.status = 'active'
		ORDER BY b.id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]models.BookProgress, 0)
	for rows.Next() {
		var b models.BookProgress
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Status, &b.PagesTotal, &b.PagesReadTotal); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
