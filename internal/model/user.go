package model

// User is the account profile returned by auth endpoints.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsRealtor bool   `json:"is_realtor"`
}

// Credentials is the POST auth/login/ payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the POST auth/register/ payload. Optional profile
// fields are omitted when empty.
type RegisterRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	IsRealtor      bool   `json:"is_realtor,omitempty"`
	PreferredCity  string `json:"preferred_city,omitempty"`
	PreferredState string `json:"preferred_state,omitempty"`
}

// AuthResponse is the shared response shape of login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
