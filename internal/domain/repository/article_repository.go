package repository

import (
	"context"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// ArticleRepository define el puerto de persistencia para Article.
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	List(ctx context.Context) ([]*entity.Article, error)
}
