package domain

// Section is a category grouping of the club's inventory, e.g. a storage
// room or an activity branch. Inventory items reference the section they
// belong to by id. Sections are immutable once fetched.
type Section struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
