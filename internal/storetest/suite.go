// Package storetest holds the behavioural suite every types.TableStore
// implementation must pass.
package storetest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/locations/pkg/types"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) types.TableStore

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name  string
		check func(t *testing.T, s types.TableStore)
	}{
		{
			name: "create table is idempotent",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))
				_, err := s.Insert("places", types.Record{"name": "spb"})
				require.NoError(t, err)

				require.NoError(t, s.CreateTable("places"))
				rows, err := s.FindAll("places")
				require.NoError(t, err)
				assert.Len(t, rows, 1, "re-creating a table must keep its rows")
			},
		},
		{
			name: "create table rejects invalid names",
			check: func(t *testing.T, s types.TableStore) {
				for _, name := range []string{"", "Places", "1places", "pla ces", `places"; drop`} {
					err := s.CreateTable(name)
					assert.ErrorIs(t, err, types.ErrInvalidTableName, "name %q", name)
				}
			},
		},
		{
			name: "operations on unknown table return ErrTableNotFound",
			check: func(t *testing.T, s types.TableStore) {
				_, err := s.Insert("missing", types.Record{"name": "x"})
				assert.ErrorIs(t, err, types.ErrTableNotFound)
				_, err = s.FindAll("missing")
				assert.ErrorIs(t, err, types.ErrTableNotFound)
				_, _, err = s.FindByID("missing", 1)
				assert.ErrorIs(t, err, types.ErrTableNotFound)
				assert.ErrorIs(t, s.Replace("missing", 1, types.Record{}), types.ErrTableNotFound)
				assert.ErrorIs(t, s.Delete("missing", 1), types.ErrTableNotFound)
			},
		},
		{
			name: "insert assigns increasing ids and find all keeps insertion order",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))

				rows, err := s.FindAll("places")
				require.NoError(t, err)
				assert.NotNil(t, rows)
				assert.Empty(t, rows)

				const n = 5
				for i := 1; i <= n; i++ {
					id, err := s.Insert("places", types.Record{"name": fmt.Sprintf("place-%d", i)})
					require.NoError(t, err)
					assert.Equal(t, int64(i), id)
				}

				rows, err = s.FindAll("places")
				require.NoError(t, err)
				require.Len(t, rows, n)
				for i, row := range rows {
					assert.Equal(t, int64(i+1), row.ID)
					assert.Equal(t, fmt.Sprintf("place-%d", i+1), row.Record["name"])
				}
			},
		},
		{
			name: "record values keep their types",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))
				in := types.Record{"name": "spb", "rank": int64(3), "score": 4.5, "note": nil}
				id, err := s.Insert("places", in)
				require.NoError(t, err)

				got, found, err := s.FindByID("places", id)
				require.NoError(t, err)
				require.True(t, found)
				assert.Equal(t, in, got)
			},
		},
		{
			name: "find by id reports absence without error",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))
				got, found, err := s.FindByID("places", 42)
				require.NoError(t, err)
				assert.False(t, found)
				assert.Nil(t, got)
			},
		},
		{
			name: "returned records are copies",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))
				in := types.Record{"name": "spb"}
				id, err := s.Insert("places", in)
				require.NoError(t, err)
				in["name"] = "changed after insert"

				got, _, err := s.FindByID("places", id)
				require.NoError(t, err)
				got["name"] = "changed after find"

				rows, err := s.FindAll("places")
				require.NoError(t, err)
				assert.Equal(t, "spb", rows[0].Record["name"])
			},
		},
		{
			name: "replace overwrites existing record in place",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))
				first, err := s.Insert("places", types.Record{"name": "spb"})
				require.NoError(t, err)
				_, err = s.Insert("places", types.Record{"name": "msk"})
				require.NoError(t, err)

				require.NoError(t, s.Replace("places", first, types.Record{"name": "saint-petersburg"}))

				rows, err := s.FindAll("places")
				require.NoError(t, err)
				require.Len(t, rows, 2)
				assert.Equal(t, first, rows[0].ID)
				assert.Equal(t, "saint-petersburg", rows[0].Record["name"])
			},
		},
		{
			name: "replace of missing record fails and leaves table unchanged",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))
				_, err := s.Insert("places", types.Record{"name": "spb"})
				require.NoError(t, err)

				err = s.Replace("places", 99, types.Record{"name": "ghost"})
				assert.ErrorIs(t, err, types.ErrRecordNotFound)

				rows, err := s.FindAll("places")
				require.NoError(t, err)
				require.Len(t, rows, 1)
				assert.Equal(t, "spb", rows[0].Record["name"])
			},
		},
		{
			name: "delete removes record permanently",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))
				a, err := s.Insert("places", types.Record{"name": "a"})
				require.NoError(t, err)
				b, err := s.Insert("places", types.Record{"name": "b"})
				require.NoError(t, err)

				require.NoError(t, s.Delete("places", a))

				_, found, err := s.FindByID("places", a)
				require.NoError(t, err)
				assert.False(t, found)

				rows, err := s.FindAll("places")
				require.NoError(t, err)
				require.Len(t, rows, 1)
				assert.Equal(t, b, rows[0].ID)

				assert.ErrorIs(t, s.Delete("places", a), types.ErrRecordNotFound)
			},
		},
		{
			name: "ids are never reused after delete",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))
				_, err := s.Insert("places", types.Record{"name": "a"})
				require.NoError(t, err)
				b, err := s.Insert("places", types.Record{"name": "b"})
				require.NoError(t, err)
				require.NoError(t, s.Delete("places", b))

				c, err := s.Insert("places", types.Record{"name": "c"})
				require.NoError(t, err)
				assert.Greater(t, c, b)
			},
		},
		{
			name: "tables are isolated",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("left"))
				require.NoError(t, s.CreateTable("right"))
				for i := 0; i < 3; i++ {
					_, err := s.Insert("left", types.Record{"n": int64(i)})
					require.NoError(t, err)
				}

				id, err := s.Insert("right", types.Record{"n": int64(0)})
				require.NoError(t, err)
				assert.Equal(t, int64(1), id)

				require.NoError(t, s.Delete("right", id))
				rows, err := s.FindAll("left")
				require.NoError(t, err)
				assert.Len(t, rows, 3)
			},
		},
		{
			name: "concurrent inserts get unique ids",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))

				const writers, perWriter = 8, 25
				ids := make(chan int64, writers*perWriter)
				var wg sync.WaitGroup
				for w := 0; w < writers; w++ {
					wg.Add(1)
					go func(w int) {
						defer wg.Done()
						for i := 0; i < perWriter; i++ {
							id, err := s.Insert("places", types.Record{"name": fmt.Sprintf("%d-%d", w, i)})
							if assert.NoError(t, err) {
								ids <- id
							}
						}
					}(w)
				}
				wg.Wait()
				close(ids)

				seen := make(map[int64]bool)
				for id := range ids {
					assert.False(t, seen[id], "id %d assigned twice", id)
					seen[id] = true
				}
				assert.Len(t, seen, writers*perWriter)

				rows, err := s.FindAll("places")
				require.NoError(t, err)
				assert.Len(t, rows, writers*perWriter)
			},
		},
		{
			name: "operations after close fail",
			check: func(t *testing.T, s types.TableStore) {
				require.NoError(t, s.CreateTable("places"))
				require.NoError(t, s.Close())
				require.NoError(t, s.Close(), "close is idempotent")

				_, err := s.Insert("places", types.Record{"name": "x"})
				assert.ErrorIs(t, err, types.ErrStoreClosed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.check(t, s)
		})
	}
}
