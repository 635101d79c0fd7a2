package entity

import "time"

type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleRedacteur  UserRole = "REDACTEUR"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// User is an account on the site. Password holds the bcrypt hash; it is
// empty for provider-issued identities, which can never log in with a
// password.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds ADMIN or SUPER_ADMIN.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
