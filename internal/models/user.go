package models

// User is an identity record. Username doubles as the primary key.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never expose or log the hash
}

// Identity is what a verified bearer token proves about the caller.
type Identity struct {
	Username string `json:"username"`
	TokenID  string `json:"tokenId"` // jti claim, for traceability
}
