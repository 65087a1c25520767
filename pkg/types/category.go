package types

var categorySchema = Schema{
	Table: CategoriesTable,
	Fields: []Field{
		{Name: "id", Type: FieldInt64, Identifier: true},
		{Name: "name", Type: FieldString},
		{Name: "slug", Type: FieldString},
	},
}

// Category classifies places. Categories are usually loaded from the remote
// place-categories endpoint at startup; the store assigns their identifiers.
type Category struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

func (c *Category) Schema() Schema  { return categorySchema }
func (c *Category) Values() []any   { return []any{c.ID, c.Name, c.Slug} }
func (c *Category) Pointers() []any { return []any{&c.ID, &c.Name, &c.Slug} }

func (c *Category) Label() (string, string) { return c.Name, c.Slug }

func (c *Category) Relabel(name, slug string) {
	c.Name = name
	c.Slug = slug
}
