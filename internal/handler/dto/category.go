package dto

// CategoryRequest is the body of category create and delete.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse is returned when a category is created.
type CategoryResponse struct {
	Name string `json:"name"`
}
