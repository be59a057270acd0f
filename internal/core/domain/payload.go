package domain

// Result messages of the authentication operations.
const (
	MessageLoginSuccessful    = "Login successful"
	MessageRegisterSuccessful = "User registered successfully"
	MessageLogoutSuccessful   = "Logout successful"
)

// AuthPayload is the envelope every authentication operation returns on success.
// Token is nil after a logout.
type AuthPayload struct {
	User    *User   `json:"user"`
	Token   *string `json:"token"`
	Message string  `json:"message"`
}

// NewAuthPayload builds a payload; an empty token renders as null.
func NewAuthPayload(user *User, token, message string) *AuthPayload {
	p := &AuthPayload{User: user, Message: message}
	if token != "" {
		p.Token = &token
	}
	return p
}
