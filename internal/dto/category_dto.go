package dto

type CategoryRequest struct {
	Nom string `json:"nom" validate:"required"`
}

type CategoryResponse struct {
	ID  string `json:"id"`
	Nom string `json:"nom"`
}
