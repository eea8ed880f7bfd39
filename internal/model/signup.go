package model

// DefaultSignupSource is used when a signup request does not name its origin.
const DefaultSignupSource = "footer"

// Signup is a newsletter subscription as written to the durable store.
type Signup struct {
	Email  string `json:"email" db:"email"`
	Source string `json:"source" db:"source"`
}

// SignupRequest represents the request payload for a newsletter signup.
type SignupRequest struct {
	Email  string `json:"email"`
	Source string `json:"source,omitempty"`
}

// SignupResponse is returned by the newsletter signup endpoint.
type SignupResponse struct {
	OK                bool `json:"ok"`
	Logged            bool `json:"logged"`
	AlreadySubscribed bool `json:"alreadySubscribed"`
}
