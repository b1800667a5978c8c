package request_models

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email,max=190"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=190"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}
