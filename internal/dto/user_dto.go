package dto

// AdminUserRequest is the action-discriminated envelope of the user
// management endpoint. The wire format is flat (fields next to the action
// tag, as the clients send them); per-action required-field checks happen in
// the service so a missing field yields a 400 naming it.
type AdminUserRequest struct {
	Action string `json:"action" validate:"required,oneof=list create delete update_role update_profile"`

	// create (all required there); update_profile reuses nom_complet as a
	// partial field — nil means "leave unchanged"
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	NomComplet *string `json:"nom_complet"`
	Role       string  `json:"role"`

	// delete / update_role / update_profile
	UserID  string `json:"user_id"`
	NewRole string `json:"new_role"`

	// update_profile only
	Telephone *string `json:"telephone"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	NomComplet string  `json:"nom_complet"`
	Telephone  *string `json:"telephone"`
	Role       string  `json:"role"`
	CreatedAt  string  `json:"created_at"`
}

// One response type per action so handlers return an explicit shape
// instead of a duck-typed map.

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

type CreateUserResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

type DeleteUserResponse struct {
	Success bool `json:"success"`
}

type UpdateRoleResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
}

type UpdateProfileResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}
