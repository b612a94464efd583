package service

import (
	"context"

	"library_catalog/internal/config"
	"library_catalog/internal/models"
	"library_catalog/internal/repository"
)

// Authorization covers credential verification and bearer-token handling.
type Authorization interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(accessToken string) (models.Identity, error)
}

// Catalog exposes CRUD over book records.
type Catalog interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id int64) (models.Book, error)
	Create(ctx context.Context, b models.Book) (models.Book, error)
	Update(ctx context.Context, b models.Book) error
	Delete(ctx context.Context, id int64) error
}

// Service aggregates the sub-services the HTTP layer depends on.
type Service struct {
	Authorization
	Catalog
}

func NewService(repos *repository.Repository, jwtCfg config.JWT) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, NewTokenManager(jwtCfg)),
		Catalog:       NewCatalogService(repos.Books),
	}
}
