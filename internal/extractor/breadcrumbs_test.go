package extractor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomepromo/backend/internal/domain"
)

func TestBuildBreadcrumbs(t *testing.T) {
	t.Run("nests labels and ends in the title", func(t *testing.T) {
		got := BuildBreadcrumbs([]string{"Eletrônicos", "Celulares", "Smartphone X"}, "Smartphone X")

		want := domain.Breadcrumbs{
			"Eletrônicos": domain.Breadcrumbs{
				"Celulares": domain.Breadcrumbs{
					"Smartphone X": "Smartphone X",
				},
			},
		}
		assert.Equal(t, want, got)
		assert.Equal(t, []string{"Eletrônicos", "Celulares", "Smartphone X"}, got.Labels())
	})

	t.Run("single label maps to title", func(t *testing.T) {
		got := BuildBreadcrumbs([]string{"Livros"}, "Dom Casmurro")
		assert.Equal(t, domain.Breadcrumbs{"Livros": "Dom Casmurro"}, got)
	})

	t.Run("no labels yields nil", func(t *testing.T) {
		assert.Nil(t, BuildBreadcrumbs(nil, "Produto"))
	})

	t.Run("serializes as nested objects", func(t *testing.T) {
		got := BuildBreadcrumbs([]string{"Casa", "Cozinha"}, "Panela")
		data, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, `{"Casa":{"Cozinha":"Panela"}}`, string(data))
	})
}
