package domain

var (
	MessageSuccessLogin  = "login successful"
	MessageFailedLogin   = "failed to log in"
	MessageSuccessLogout = "logged out"
)

type (
	LoginRequest struct {
		Username string `json:"username" form:"username" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	TokenResponse struct {
		Token string `json:"token" validate:"required"`
	}

	// ErrorDetail is the error body shape the API uses.
	ErrorDetail struct {
		Detail         string   `json:"detail,omitempty"`
		NonFieldErrors []string `json:"non_field_errors,omitempty"`
	}
)
