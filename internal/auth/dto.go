package auth

type RegisterRequest struct {
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
}

type LoginRequest struct {
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
}

type AuthResponse struct {
	Token        string `json:"token"`
	UserID       string `json:"userId"`
	MobileNumber string `json:"mobileNumber"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role"`
}
