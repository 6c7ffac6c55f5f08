package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/pkg/errors"
)

func TestMapSettings_NormalizeFilter(t *testing.T) {
	t.Run("defaults radius", func(t *testing.T) {
		f, err := testSettings.NormalizeFilter(domain.SearchFilter{})
		require.NoError(t, err)
		assert.Equal(t, 3000, f.RadiusMeters)
		assert.Equal(t, domain.Category(""), f.Category)
	})

	t.Run("every configured radius is accepted", func(t *testing.T) {
		for _, r := range testSettings.RadiusOptions {
			f, err := testSettings.NormalizeFilter(domain.SearchFilter{RadiusMeters: r})
			require.NoError(t, err)
			assert.Equal(t, r, f.RadiusMeters)
		}
	})

	t.Run("unknown radius", func(t *testing.T) {
		_, err := testSettings.NormalizeFilter(domain.SearchFilter{RadiusMeters: 7000})
		assert.True(t, errors.Is(err, errors.ErrInvalidRadius))
	})

	t.Run("category is normalized", func(t *testing.T) {
		f, err := testSettings.NormalizeFilter(domain.SearchFilter{Category: " PET_STORE "})
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryPetStore, f.Category)
	})

	t.Run("unknown category cannot be used as filter", func(t *testing.T) {
		_, err := testSettings.NormalizeFilter(domain.SearchFilter{Category: domain.CategoryUnknown})
		assert.True(t, errors.Is(err, errors.ErrInvalidCategory))
	})
}
