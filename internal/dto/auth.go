package dto

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// RegisterRequest carries the payload for self-service account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
