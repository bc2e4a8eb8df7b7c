package entity

// Page is the backend's pagination envelope for list endpoints.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
	CurrentPage   int `json:"currentPage"`
}

// PageRequest selects a slice of a paginated listing. Sort is the
// backend's "field,direction" form and may be empty.
type PageRequest struct {
	Page int
	Size int
	Sort string
}
