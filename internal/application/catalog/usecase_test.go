package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/application/catalog"
	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/messaging"
	"github.com/jhoicas/andyshop-api/pkg/clock"
)

type fakeImages struct {
	got ports.Image
	url string
	err error
}

func (f *fakeImages) Upload(_ context.Context, img ports.Image) (string, error) {
	f.got = img
	return f.url, f.err
}

func newUseCase(images ports.ImageStore) *catalog.UseCase {
	store := memory.NewStore()
	composer := messaging.NewComposer("AndyShop", "XOF", "+225")
	clk := clock.Fixed{T: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)}
	return catalog.NewUseCase(store.Repositories(), images, composer, clk, zerolog.Nop())
}

func TestCreateClient_NormalizaTelefono(t *testing.T) {
	uc := newUseCase(nil)
	out, err := uc.CreateClient(context.Background(), dto.CreateClientRequest{FullName: "Awa Koné", Phone: "07 08 09 10 11"})
	require.NoError(t, err)
	assert.Equal(t, "+2250708091011", out.Phone)
}

func TestCreateClient_TelefonoDuplicado(t *testing.T) {
	uc := newUseCase(nil)
	ctx := context.Background()
	_, err := uc.CreateClient(ctx, dto.CreateClientRequest{FullName: "Awa", Phone: "+2250708091011"})
	require.NoError(t, err)

	_, err = uc.CreateClient(ctx, dto.CreateClientRequest{FullName: "Otra", Phone: "0708091011"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateClient_Validaciones(t *testing.T) {
	uc := newUseCase(nil)
	ctx := context.Background()

	_, err := uc.CreateClient(ctx, dto.CreateClientRequest{Phone: "0708091011"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateClient(ctx, dto.CreateClientRequest{FullName: "Awa", Phone: "12"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListClients_BusquedaSinAcentos(t *testing.T) {
	uc := newUseCase(nil)
	ctx := context.Background()
	for _, c := range []dto.CreateClientRequest{
		{FullName: "Awa Koné", Phone: "0708091011"},
		{FullName: "Bintou Traoré", Phone: "0708091012"},
		{FullName: "Aïcha Konaté", Phone: "0708091013"},
	} {
		_, err := uc.CreateClient(ctx, c)
		require.NoError(t, err)
	}

	res, err := uc.ListClients(ctx, dto.SearchRequest{Query: "kone"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Awa Koné", res.Items[0].FullName)

	res, err = uc.ListClients(ctx, dto.SearchRequest{}, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Page.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Aïcha Konaté", res.Items[0].FullName)
}

func TestCreateArticle_YBusqueda(t *testing.T) {
	uc := newUseCase(nil)
	ctx := context.Background()

	created, err := uc.CreateArticle(ctx, dto.CreateArticleRequest{Name: "Eau de Parfum Élégance", Shop: "Parfums", Category: "Femme"})
	require.NoError(t, err)
	assert.True(t, created.Active)

	_, err = uc.CreateArticle(ctx, dto.CreateArticleRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := uc.ListArticles(ctx, dto.SearchRequest{Query: "elegance"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	got, err := uc.GetArticle(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Parfums", got.Shop)

	_, err = uc.GetArticle(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSupplier(t *testing.T) {
	uc := newUseCase(nil)
	ctx := context.Background()

	out, err := uc.CreateSupplier(ctx, dto.CreateSupplierRequest{Name: "Istanbul Shoes", Country: "Turquie"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)

	list, err := uc.ListSuppliers(ctx, dto.SearchRequest{Query: "turq"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()

	_, err := newUseCase(nil).UploadImage(ctx, ports.Image{Name: "a.jpg"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	images := &fakeImages{url: "https://cdn/a.jpg"}
	out, err := newUseCase(images).UploadImage(ctx, ports.Image{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a.jpg", out.URL)
	assert.Equal(t, "a.jpg", images.got.Name)

	images.err = errors.New("boom")
	_, err = newUseCase(images).UploadImage(ctx, ports.Image{Name: "b.jpg"})
	assert.Error(t, err)
}
