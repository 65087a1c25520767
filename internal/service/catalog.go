// Package service exposes the location and category operations the web
// layer calls. Each service is a thin, logged wrapper over a repository.
package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/locations/pkg/types"
)

// Repository is the subset of repository.Repository a Catalog needs.
type Repository[T any] interface {
	FindAll() ([]T, error)
	FindByID(id int64) (T, bool, error)
	Save(entity T) (T, error)
	Delete(id int64) error
}

// Named constrains PT to a pointer to T carrying a name and a slug.
type Named[T any] interface {
	*T
	types.Named
}

// Catalog manages named entities of one kind.
type Catalog[T any, PT Named[T]] struct {
	kind   string
	repo   Repository[T]
	logger zerolog.Logger
}

// NewCatalog returns a catalog of kind over repo.
func NewCatalog[T any, PT Named[T]](kind string, repo Repository[T], logger zerolog.Logger) *Catalog[T, PT] {
	return &Catalog[T, PT]{
		kind:   kind,
		repo:   repo,
		logger: logger.With().Str("component", "service").Str("kind", kind).Logger(),
	}
}

// NewLocations returns the location catalog.
func NewLocations(repo Repository[types.Location], logger zerolog.Logger) *Catalog[types.Location, *types.Location] {
	return NewCatalog[types.Location]("location", repo, logger)
}

// NewCategories returns the category catalog.
func NewCategories(repo Repository[types.Category], logger zerolog.Logger) *Catalog[types.Category, *types.Category] {
	return NewCatalog[types.Category]("category", repo, logger)
}

// List returns every entity.
func (c *Catalog[T, PT]) List() ([]T, error) {
	c.logger.Info().Msg("list requested")
	return c.repo.FindAll()
}

// Get returns the entity with the given id, or an error wrapping
// types.ErrRecordNotFound.
func (c *Catalog[T, PT]) Get(id int64) (T, error) {
	c.logger.Info().Int64("id", id).Msg("get requested")
	e, found, err := c.repo.FindByID(id)
	if err != nil {
		return e, err
	}
	if !found {
		return e, fmt.Errorf("%s %d: %w", c.kind, id, types.ErrRecordNotFound)
	}
	return e, nil
}

// Create stores a new entity. The store assigns its id.
func (c *Catalog[T, PT]) Create(name, slug string) (T, error) {
	c.logger.Info().Str("name", name).Str("slug", slug).Msg("create requested")
	var e T
	if err := validate(name, slug); err != nil {
		return e, err
	}
	PT(&e).Relabel(name, slug)
	return c.repo.Save(e)
}

// Update renames an existing entity.
func (c *Catalog[T, PT]) Update(id int64, name, slug string) (T, error) {
	c.logger.Info().Int64("id", id).Str("name", name).Str("slug", slug).Msg("update requested")
	if err := validate(name, slug); err != nil {
		var zero T
		return zero, err
	}
	e, err := c.Get(id)
	if err != nil {
		return e, err
	}
	PT(&e).Relabel(name, slug)
	return c.repo.Save(e)
}

// Delete removes the entity with the given id.
func (c *Catalog[T, PT]) Delete(id int64) error {
	c.logger.Info().Int64("id", id).Msg("delete requested")
	return c.repo.Delete(id)
}

func validate(name, slug string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", types.ErrInvalidEntity)
	case slug == "":
		return fmt.Errorf("%w: empty slug", types.ErrInvalidEntity)
	}
	return nil
}
