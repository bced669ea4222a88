package airtable_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/airtable"
)

// ──────────────────────────────────────────────────────────────────────────────
// Cliente REST
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_List_SiguePaginas(t *testing.T) {
	fake, client, _ := newTestStore(t)
	fake.pageSize = 2
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		_, err := client.Create(ctx, "Articles", airtable.Fields{"nom": n})
		require.NoError(t, err)
	}

	recs, err := client.List(ctx, "Articles", airtable.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, recs, 5)
	assert.Equal(t, 3, fake.requestCount(http.MethodGet), "5 registros en páginas de 2")
}

func TestClient_List_EnviaFormulaYOrden(t *testing.T) {
	fake, client, _ := newTestStore(t)
	_, err := client.List(context.Background(), "Clients", airtable.ListOptions{
		Filter:     airtable.Eq("telephone", "+2250700000000"),
		Sort:       []airtable.Sort{{Field: "nom_complet", Direction: "desc"}},
		MaxRecords: 1,
	})
	require.NoError(t, err)

	q := fake.requests[0].URL.Query()
	assert.Equal(t, `{telephone}="+2250700000000"`, q.Get("filterByFormula"))
	assert.Equal(t, "nom_complet", q.Get("sort[0][field]"))
	assert.Equal(t, "desc", q.Get("sort[0][direction]"))
	assert.Equal(t, "1", q.Get("maxRecords"))
}

func TestClient_CreateMany_LotesDeDiez(t *testing.T) {
	fake, client, _ := newTestStore(t)
	rows := make([]airtable.Fields, 25)
	for i := range rows {
		rows[i] = airtable.Fields{"quantite": i}
	}

	recs, err := client.CreateMany(context.Background(), "Lignes_Vente", rows)
	require.NoError(t, err)
	assert.Len(t, recs, 25)
	assert.Equal(t, 3, fake.requestCount(http.MethodPost))
	assert.Equal(t, 25, fake.count("Lignes_Vente"))
}

func TestClient_ErroresSeTraducen(t *testing.T) {
	fake, client, _ := newTestStore(t)
	ctx := context.Background()

	_, err := client.Get(ctx, "Dettes", "recNOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	var apiErr *airtable.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Dettes", apiErr.Table)

	fake.failOn = func(r *http.Request) int {
		if r.Method == http.MethodPost {
			return http.StatusUnprocessableEntity
		}
		return http.StatusInternalServerError
	}
	_, err = client.Create(ctx, "Ventes", airtable.Fields{"reference": "VTE-2025-001"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = client.List(ctx, "Ventes", airtable.ListOptions{})
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}

func TestClient_SinServidor_AlmacenNoDisponible(t *testing.T) {
	client := airtable.NewClient(testConfig("http://127.0.0.1:1"), zerolog.Nop())
	_, err := client.List(context.Background(), "Articles", airtable.ListOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}

// ──────────────────────────────────────────────────────────────────────────────
// Fórmulas
// ──────────────────────────────────────────────────────────────────────────────

func TestFormula(t *testing.T) {
	tests := []struct {
		name string
		f    airtable.Formula
		want string
	}{
		{"texto con comillas", airtable.Eq("nom", `Sac "Luxe" \ cuir`), `{nom}="Sac \"Luxe\" \\ cuir"`},
		{"booleano", airtable.Eq("actif", true), `{actif}=TRUE()`},
		{"número", airtable.Gt("montant_restant", 0), `{montant_restant}>0`},
		{"and de uno", airtable.And(airtable.Neq("statut", "Échec")), `{statut}!="Échec"`},
		{"and vacío", airtable.And(), ``},
		{"or anidado", airtable.Or(airtable.Eq("canal", "SMS"), airtable.And(airtable.Lt("montant", 10), airtable.Eq("actif", false))),
			`OR({canal}="SMS", AND({montant}<10, {actif}=FALSE()))`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.f.Formula())
		})
	}
}
