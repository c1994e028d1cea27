// Package domain contains entities without transport or lifecycle logic.
package domain

type UserID string

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Identity is the authenticated principal behind a connection.
// It is resolved once at connect time and immutable afterwards.
type Identity struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// CanModerate reports whether the role alone grants moderation rights.
func (i *Identity) CanModerate() bool {
	return i.Role == RoleTeacher || i.Role == RoleAdmin
}
