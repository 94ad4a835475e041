package dto

type RegisterRequest struct {
	StudentID        string `json:"studentId"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Gender           string `json:"gender"`
	IdentityDocument string `json:"identityDocument"` // base64 or data URI
}

// LoginRequest.Identifier is an email when it contains "@", a student id otherwise.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

type TokenClaims struct {
	StudentID string  `json:"studentId"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
	Iat       float64 `json:"iat"`
	Expiry    float64 `json:"expiry,omitempty"`
}
