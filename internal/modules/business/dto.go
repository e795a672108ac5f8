package business

type CreateBusinessRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	Address     string `json:"address" validate:"omitempty,max=300"`
}
