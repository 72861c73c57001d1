package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims binding a client to one wizard session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}
