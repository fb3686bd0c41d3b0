package types

// TokenClaims is the authenticated identity carried by a validated JWT.
type TokenClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}
