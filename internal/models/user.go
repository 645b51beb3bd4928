package models

// Role is the authorization role assigned to a user account.
// The set is fixed by the backend; clients never invent new roles.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleMaintainer Role = "MAINTAINER"
	RoleReporter   Role = "REPORTER"
)

// UserIdentity is the client's view of the authenticated user.
type UserIdentity struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role"`
}

// UserCreate is the registration request body. Role is optional; the
// backend defaults it to REPORTER.
type UserCreate struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password" validate:"required,min=1"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=ADMIN MAINTAINER REPORTER"`
}

// UserLogin is the login request body.
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token is the bearer credential returned by register and login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
