package jwt

import "time"

type Role int

const (
	RoleService Role = iota
)

const DefaultTokenTTL = 15 * time.Minute

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"`
}

type TokenRequest struct {
	APIKey string `json:"apiKey"`
}

// Claims is the subset of token claims the chat service cares about.
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt int64
}
