package types

// Table names of the built-in entity kinds.
const (
	LocationsTable  = "locations"
	CategoriesTable = "categories"
)
