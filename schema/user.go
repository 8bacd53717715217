package schema

// CreateUserRequest is the admin-only user creation body. Emails are
// lowercased before they reach the store.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=5,max=40"`
	FullName string `json:"fullname" validate:"required,min=4,max=30"`
	RoleName string `json:"role_name" validate:"required"`
	Disabled bool   `json:"disabled"`
}

// UpdateUserRequest mirrors CreateUserRequest, but the password is optional:
// when absent the stored hash is kept.
type UpdateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"omitempty,min=5,max=40"`
	FullName string `json:"fullname" validate:"required,min=4,max=30"`
	RoleName string `json:"role_name" validate:"required"`
	Disabled bool   `json:"disabled"`
}

// ChangePasswordRequest is the admin-forced variant, no old password needed.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=5,max=40"`
}

// ChangeMyPasswordRequest requires proof of the old password.
type ChangeMyPasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required,min=5,max=40"`
	NewPassword string `json:"new_password" validate:"required,min=5,max=40"`
}

type DisableUserRequest struct {
	Disabled *bool `json:"disabled" validate:"required"`
}

// UserResponse is the outward account view. The password hash and the
// numeric role id never leave the server.
type UserResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	Disabled bool   `json:"disabled"`
	RoleName string `json:"role_name"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
