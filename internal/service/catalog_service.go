package service

import (
	"context"
	"errors"
	"fmt"

	"library_catalog/internal/models"
	"library_catalog/internal/repository"
)

// Domain errors for catalog flows.
var (
	ErrBookNotFound = errors.New("book not found")
	ErrEditConflict = errors.New("book was modified by someone else")
)

// CatalogService implements book CRUD over the Books repository. Each record
// is independent; concurrency control is delegated to the store's row
// version, surfaced here as ErrEditConflict.
type CatalogService struct {
	books repository.Books
}

func NewCatalogService(books repository.Books) *CatalogService {
	return &CatalogService{books: books}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Book, error) {
	return s.books.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (models.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return models.Book{}, fmt.Errorf("get book: %w", err)
	}
	if b == nil {
		return models.Book{}, ErrBookNotFound
	}
	return *b, nil
}

// Create assigns a server-side id and returns the stored record.
func (s *CatalogService) Create(ctx context.Context, b models.Book) (models.Book, error) {
	id, err := s.books.Create(ctx, b)
	if err != nil {
		return models.Book{}, fmt.Errorf("create book: %w", err)
	}
	b.ID = id
	b.Version = 1
	return b, nil
}

func (s *CatalogService) Update(ctx context.Context, b models.Book) error {
	err := s.books.Update(ctx, b)
	switch {
	case errors.Is(err, repository.ErrBookNotFound):
		return ErrBookNotFound
	case errors.Is(err, repository.ErrVersionConflict):
		return ErrEditConflict
	case err != nil:
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	err := s.books.Delete(ctx, id)
	if errors.Is(err, repository.ErrBookNotFound) {
		return ErrBookNotFound
	}
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}
