package userservice

// User модель пользователя из UserService
type User struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"` // admin | user
	Department *string `json:"department,omitempty"`
	IsActive   bool    `json:"is_active"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
