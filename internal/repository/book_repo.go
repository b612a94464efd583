package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"library_catalog/internal/models"
)

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

var _ Books = (*BookRepository)(nil)

const (
	listBooksSQL      = `SELECT id, title, author, description, version FROM books ORDER BY id DESC`
	selectBookByIDSQL = `SELECT id, title, author, description, version FROM books WHERE id = ?`
	insertBookSQL     = `INSERT INTO books (title, author, description) VALUES (?, ?, ?)`
	updateBookSQL     = `UPDATE books SET title = ?, author = ?, description = ?, version = version + 1 WHERE id = ? AND version = ?`
	deleteBookSQL     = `DELETE FROM books WHERE id = ?`
	existsBookSQL     = `SELECT 1 FROM books WHERE id = ?`
)

// List returns every book, newest first.
func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, listBooksSQL)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	books := make([]models.Book, 0)
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Version); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// GetByID fetches one book. Returns (nil, nil) if not found.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	err := r.db.QueryRowContext(ctx, selectBookByIDSQL, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select book %d: %w", id, err)
	}
	return &b, nil
}

// Create inserts a book and returns the server-assigned id.
func (r *BookRepository) Create(ctx context.Context, b models.Book) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertBookSQL, b.Title, b.Author, b.Description)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get book insert id: %w", err)
	}
	return id, nil
}

// Update overwrites the book's fields where id and version both match.
// Zero rows affected means either the row is gone (ErrBookNotFound) or the
// caller read a version that has since been bumped (ErrVersionConflict).
func (r *BookRepository) Update(ctx context.Context, b models.Book) error {
	res, err := r.db.ExecContext(ctx, updateBookSQL,
		b.Title, b.Author, b.Description, b.ID, b.Version)
	if err != nil {
		return fmt.Errorf("update book %d: %w", b.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update book %d rows affected: %w", b.ID, err)
	}
	if n > 0 {
		return nil
	}

	var one int
	err = r.db.QueryRowContext(ctx, existsBookSQL, b.ID).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrBookNotFound
	case err != nil:
		return fmt.Errorf("check book %d exists: %w", b.ID, err)
	default:
		return ErrVersionConflict
	}
}

// Delete removes the book. Deleting an id that no longer exists is reported
// as ErrBookNotFound, not a storage error.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteBookSQL, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %d rows affected: %w", id, err)
	}
	if n == 0 {
		return ErrBookNotFound
	}
	return nil
}
