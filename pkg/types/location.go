package types

var locationSchema = Schema{
	Table: LocationsTable,
	Fields: []Field{
		{Name: "id", Type: FieldInt64, Identifier: true},
		{Name: "name", Type: FieldString},
		{Name: "slug", Type: FieldString},
	},
}

// Location is a city or area places belong to.
type Location struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

func (l *Location) Schema() Schema  { return locationSchema }
func (l *Location) Values() []any   { return []any{l.ID, l.Name, l.Slug} }
func (l *Location) Pointers() []any { return []any{&l.ID, &l.Name, &l.Slug} }

func (l *Location) Label() (string, string) { return l.Name, l.Slug }

func (l *Location) Relabel(name, slug string) {
	l.Name = name
	l.Slug = slug
}
