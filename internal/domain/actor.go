package domain

// Role роль пользователя
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Actor identity of the user performing an operation
type Actor struct {
	ID   int64
	Role Role
}

// IsAdmin reports whether the actor has administrative rights
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
