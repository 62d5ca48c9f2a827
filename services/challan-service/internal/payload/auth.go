package payload

type SignupRequest struct {
	Name            string `json:"name"             validate:"required"`
	Gmail           string `json:"gmail"            validate:"required,email"`
	Password        string `json:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type SignupResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Gmail    string `json:"gmail"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ProfileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Gmail string `json:"gmail"`
}
