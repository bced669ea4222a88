package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/andyshop-api/internal/domain/search"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "creme brulee", search.Normalize("Crème Brûlée"))
	assert.Equal(t, "kone", search.Normalize("Koné"))
	assert.Equal(t, "", search.Normalize(""))
}

func TestMatch(t *testing.T) {
	assert.True(t, search.Match("Eau de Toilette Élégance", "elegance"))
	assert.True(t, search.Match("Awa Koné", "KONE"))
	assert.True(t, search.Match("cualquier cosa", ""))
	assert.False(t, search.Match("", "x"))
	assert.False(t, search.Match("Sandales", "parfum"))
}

func TestFilter(t *testing.T) {
	type item struct{ name, phone string }
	items := []item{{"Aïcha Traoré", "0700000001"}, {"Jean Dupont", "0500000002"}}

	got := search.Filter(items, "traore", func(i item) []string { return []string{i.name, i.phone} })
	assert.Len(t, got, 1)

	got = search.Filter(items, "0500", func(i item) []string { return []string{i.name, i.phone} })
	assert.Equal(t, "Jean Dupont", got[0].name)

	assert.Len(t, search.Filter(items, " ", func(i item) []string { return nil }), 2)
}
