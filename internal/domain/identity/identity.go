// Package identity describes the verified caller of an operation.
package identity

// Caller is the identity established by the token verifier. The zero value
// is an anonymous caller.
type Caller struct {
	UserID   string
	Username string
}

func (c Caller) Authenticated() bool {
	return c.UserID != ""
}
