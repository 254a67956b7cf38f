package model

type Role string

const (
	RoleUser      Role = "user"
	RoleLibrarian Role = "librarian"
)

// ParseRole maps a stored or received role string to a Role.
// Unknown values and the empty string yield "".
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser, RoleLibrarian:
		return Role(s)
	}
	return ""
}

func (r Role) IsLibrarian() bool { return r == RoleLibrarian }

type Session struct {
	Token string
	Email string
	Role  Role
}

func (s Session) Authenticated() bool { return s.Token != "" }

func (s Session) IsLibrarian() bool { return s.Role.IsLibrarian() }

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// LoginResult is the backend's answer to POST /users/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	Role        Role   `json:"role,omitempty"`
}
