// Package catalog casos de uso de artículos, clientes y proveedores.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
	"github.com/jhoicas/andyshop-api/internal/domain/search"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/messaging"
	"github.com/jhoicas/andyshop-api/pkg/clock"
)

// UseCase orquesta el alta y la búsqueda del catálogo.
type UseCase struct {
	repos    repository.Set
	images   ports.ImageStore
	composer *messaging.Composer
	clock    clock.Clock
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. images puede ser nil si no hay almacenamiento configurado.
func NewUseCase(repos repository.Set, images ports.ImageStore, composer *messaging.Composer, clk clock.Clock, log zerolog.Logger) *UseCase {
	return &UseCase{repos: repos, images: images, composer: composer, clock: clk, log: log}
}

// ── Artículos ────────────────────────────────────────────────────────────────

func (uc *UseCase) CreateArticle(ctx context.Context, req dto.CreateArticleRequest) (*dto.ArticleDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	a := &entity.Article{
		Name:      name,
		Shop:      strings.TrimSpace(req.Shop),
		Category:  strings.TrimSpace(req.Category),
		ImageURL:  req.ImageURL,
		Notes:     req.Notes,
		Active:    true,
		CreatedAt: uc.clock.Now(),
	}
	if err := uc.repos.Articles.Create(ctx, a); err != nil {
		return nil, err
	}
	out := toArticleDTO(a)
	return &out, nil
}

func (uc *UseCase) GetArticle(ctx context.Context, id string) (*dto.ArticleDTO, error) {
	a, err := uc.repos.Articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toArticleDTO(a)
	return &out, nil
}

// ListArticles filtra por nombre, tienda o categoría sin distinguir acentos ni mayúsculas.
func (uc *UseCase) ListArticles(ctx context.Context, req dto.SearchRequest, page dto.PageRequest) (*dto.ListResponse[dto.ArticleDTO], error) {
	items, err := uc.repos.Articles.List(ctx)
	if err != nil {
		return nil, err
	}
	items = search.Filter(items, req.Query, func(a *entity.Article) []string {
		return []string{a.Name, a.Shop, a.Category}
	})
	sort.SliceStable(items, func(i, j int) bool { return search.Normalize(items[i].Name) < search.Normalize(items[j].Name) })
	out := make([]dto.ArticleDTO, 0, len(items))
	for _, a := range items {
		out = append(out, toArticleDTO(a))
	}
	res := dto.Paginate(out, page)
	return &res, nil
}

// ── Clientes ─────────────────────────────────────────────────────────────────

// CreateClient normaliza el teléfono; un teléfono ya registrado es ErrConflict.
func (uc *UseCase) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientDTO, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, domain.NewValidationError("full_name", "el nombre es obligatorio")
	}
	phone := uc.composer.NormalizePhone(req.Phone)
	if len(strings.TrimPrefix(phone, "+")) < 8 {
		return nil, domain.NewValidationError("phone", "teléfono inválido")
	}
	existing, err := uc.repos.Clients.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("teléfono %s ya registrado para %s: %w", phone, existing.FullName, domain.ErrConflict)
	}
	c := &entity.Client{
		FullName:  name,
		Phone:     phone,
		Type:      req.Type,
		Email:     strings.TrimSpace(req.Email),
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedAt: uc.clock.Now(),
	}
	if err := uc.repos.Clients.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.log.Info().Str("client_id", c.ID).Msg("cliente creado")
	out := toClientDTO(c)
	return &out, nil
}

func (uc *UseCase) GetClient(ctx context.Context, id string) (*dto.ClientDTO, error) {
	c, err := uc.repos.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toClientDTO(c)
	return &out, nil
}

// ListClients filtra por nombre o teléfono.
func (uc *UseCase) ListClients(ctx context.Context, req dto.SearchRequest, page dto.PageRequest) (*dto.ListResponse[dto.ClientDTO], error) {
	items, err := uc.repos.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	items = search.Filter(items, req.Query, func(c *entity.Client) []string {
		return []string{c.FullName, c.Phone, c.Type}
	})
	sort.SliceStable(items, func(i, j int) bool { return search.Normalize(items[i].FullName) < search.Normalize(items[j].FullName) })
	out := make([]dto.ClientDTO, 0, len(items))
	for _, c := range items {
		out = append(out, toClientDTO(c))
	}
	res := dto.Paginate(out, page)
	return &res, nil
}

// ── Proveedores ──────────────────────────────────────────────────────────────

func (uc *UseCase) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	s := &entity.Supplier{
		Name:      name,
		Country:   strings.TrimSpace(req.Country),
		Phone:     req.Phone,
		Email:     strings.TrimSpace(req.Email),
		Notes:     req.Notes,
		CreatedAt: uc.clock.Now(),
	}
	if s.Phone != "" {
		s.Phone = uc.composer.NormalizePhone(s.Phone)
	}
	if err := uc.repos.Suppliers.Create(ctx, s); err != nil {
		return nil, err
	}
	out := toSupplierDTO(s)
	return &out, nil
}

func (uc *UseCase) ListSuppliers(ctx context.Context, req dto.SearchRequest) ([]dto.SupplierDTO, error) {
	items, err := uc.repos.Suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	items = search.Filter(items, req.Query, func(s *entity.Supplier) []string {
		return []string{s.Name, s.Country}
	})
	out := make([]dto.SupplierDTO, 0, len(items))
	for _, s := range items {
		out = append(out, toSupplierDTO(s))
	}
	return out, nil
}

// ── Imágenes ─────────────────────────────────────────────────────────────────

// UploadImage sube una foto de artículo al almacenamiento configurado y devuelve su URL.
func (uc *UseCase) UploadImage(ctx context.Context, img ports.Image) (*dto.UploadResultDTO, error) {
	if uc.images == nil {
		return nil, fmt.Errorf("almacenamiento de imágenes no configurado: %w", domain.ErrStoreUnavailable)
	}
	url, err := uc.images.Upload(ctx, img)
	if err != nil {
		return nil, err
	}
	return &dto.UploadResultDTO{URL: url}, nil
}

func toArticleDTO(a *entity.Article) dto.ArticleDTO {
	return dto.ArticleDTO{
		ID:        a.ID,
		Name:      a.Name,
		Shop:      a.Shop,
		Category:  a.Category,
		ImageURL:  a.ImageURL,
		Notes:     a.Notes,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}

func toClientDTO(c *entity.Client) dto.ClientDTO {
	return dto.ClientDTO{
		ID:        c.ID,
		FullName:  c.FullName,
		Phone:     c.Phone,
		Type:      c.Type,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

func toSupplierDTO(s *entity.Supplier) dto.SupplierDTO {
	return dto.SupplierDTO{
		ID:        s.ID,
		Name:      s.Name,
		Country:   s.Country,
		Phone:     s.Phone,
		Email:     s.Email,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
	}
}
