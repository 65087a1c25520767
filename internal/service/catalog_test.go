package service

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/locations/internal/memory"
	"github.com/mesh-intelligence/locations/internal/metadata"
	"github.com/mesh-intelligence/locations/internal/repository"
	"github.com/mesh-intelligence/locations/pkg/types"
)

func newLocations(t *testing.T, logs *bytes.Buffer) *Catalog[types.Location, *types.Location] {
	t.Helper()
	repo, err := repository.New[types.Location](memory.NewStore(), metadata.NewRegistry())
	require.NoError(t, err)
	return NewLocations(repo, zerolog.New(logs))
}

func TestCatalog(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T, c *Catalog[types.Location, *types.Location])
	}{
		{
			name: "create assigns ids",
			check: func(t *testing.T, c *Catalog[types.Location, *types.Location]) {
				spb, err := c.Create("Saint Petersburg", "spb")
				require.NoError(t, err)
				msk, err := c.Create("Moscow", "msk")
				require.NoError(t, err)
				assert.Equal(t, int64(1), spb.ID)
				assert.Equal(t, int64(2), msk.ID)

				all, err := c.List()
				require.NoError(t, err)
				assert.Equal(t, []types.Location{spb, msk}, all)
			},
		},
		{
			name: "get",
			check: func(t *testing.T, c *Catalog[types.Location, *types.Location]) {
				spb, err := c.Create("Saint Petersburg", "spb")
				require.NoError(t, err)

				got, err := c.Get(spb.ID)
				require.NoError(t, err)
				assert.Equal(t, spb, got)

				_, err = c.Get(99)
				assert.ErrorIs(t, err, types.ErrRecordNotFound)
				assert.EqualError(t, err, "location 99: record not found")
			},
		},
		{
			name: "update",
			check: func(t *testing.T, c *Catalog[types.Location, *types.Location]) {
				spb, err := c.Create("Leningrad", "len")
				require.NoError(t, err)

				updated, err := c.Update(spb.ID, "Saint Petersburg", "spb")
				require.NoError(t, err)
				assert.Equal(t, types.Location{ID: spb.ID, Name: "Saint Petersburg", Slug: "spb"}, updated)

				got, err := c.Get(spb.ID)
				require.NoError(t, err)
				assert.Equal(t, updated, got)
			},
		},
		{
			name: "update missing",
			check: func(t *testing.T, c *Catalog[types.Location, *types.Location]) {
				_, err := c.Update(5, "Kazan", "kzn")
				assert.ErrorIs(t, err, types.ErrRecordNotFound)

				all, err := c.List()
				require.NoError(t, err)
				assert.Empty(t, all)
			},
		},
		{
			name: "delete",
			check: func(t *testing.T, c *Catalog[types.Location, *types.Location]) {
				spb, err := c.Create("Saint Petersburg", "spb")
				require.NoError(t, err)

				require.NoError(t, c.Delete(spb.ID))
				assert.ErrorIs(t, c.Delete(spb.ID), types.ErrRecordNotFound)
				_, err = c.Get(spb.ID)
				assert.ErrorIs(t, err, types.ErrRecordNotFound)
			},
		},
		{
			name: "rejects empty labels",
			check: func(t *testing.T, c *Catalog[types.Location, *types.Location]) {
				_, err := c.Create("", "spb")
				assert.ErrorIs(t, err, types.ErrInvalidEntity)
				_, err = c.Create("Saint Petersburg", "")
				assert.ErrorIs(t, err, types.ErrInvalidEntity)

				spb, err := c.Create("Saint Petersburg", "spb")
				require.NoError(t, err)
				_, err = c.Update(spb.ID, "", "spb")
				assert.ErrorIs(t, err, types.ErrInvalidEntity)

				all, err := c.List()
				require.NoError(t, err)
				assert.Equal(t, []types.Location{spb}, all)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			tt.check(t, newLocations(t, &logs))
		})
	}
}

func TestCatalogLogsRequests(t *testing.T) {
	var logs bytes.Buffer
	c := newLocations(t, &logs)

	_, err := c.Create("Saint Petersburg", "spb")
	require.NoError(t, err)
	_, err = c.List()
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, `"kind":"location"`)
	assert.Contains(t, out, `"message":"create requested"`)
	assert.Contains(t, out, `"message":"list requested"`)
}

func TestCategories(t *testing.T) {
	repo, err := repository.New[types.Category](memory.NewStore(), metadata.NewRegistry())
	require.NoError(t, err)
	c := NewCategories(repo, zerolog.Nop())

	museums, err := c.Create("Museums", "museums")
	require.NoError(t, err)
	got, err := c.Get(museums.ID)
	require.NoError(t, err)
	assert.Equal(t, "museums", got.Slug)
}
