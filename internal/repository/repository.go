package repository

import (
	"context"
	"database/sql"
	"errors"

	"library_catalog/internal/models"
)

// Storage-level outcomes the service layer branches on.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrBookNotFound      = errors.New("book not found")
	ErrVersionConflict   = errors.New("book was modified concurrently")
)

type Users interface {
	Create(ctx context.Context, username, passwordHash string) error
	// GetByUsername returns (nil, nil) when the user does not exist.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type Books interface {
	List(ctx context.Context) ([]models.Book, error)
	// GetByID returns (nil, nil) when no such book exists.
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b models.Book) (int64, error)
	// Update overwrites title/author/description where id and version match.
	// Returns ErrBookNotFound or ErrVersionConflict accordingly.
	Update(ctx context.Context, b models.Book) error
	Delete(ctx context.Context, id int64) error
}

type Repository struct {
	Users Users
	Books Books
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(conn),
		Books: NewBookRepository(conn),
	}
}
