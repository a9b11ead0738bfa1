package user

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID string
	Email  string
}
