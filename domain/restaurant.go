package domain

var (
	MessageFailedGetRestaurants = "failed to retrieve restaurants"
	MessageSuccessSelect        = "restaurant selected"
)

type (
	Restaurant struct {
		ID    WireID `json:"id" validate:"required"`
		Name  string `json:"name" validate:"required"`
		Email string `json:"email"`
	}

	CreateRestaurantRequest struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"omitempty,email"`
	}
)
