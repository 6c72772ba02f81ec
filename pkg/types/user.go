package types

import "github.com/angelmondragon/packfinderz-storefront/pkg/enums"

// User carries the identity claims decoded from an access token.
type User struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Role   enums.UserRole `json:"role"`
	Avatar string         `json:"avatar,omitempty"`
}

// Tokens is the opaque credential pair issued by the auth endpoints.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserPayload is the session snapshot published to subscribers.
type UserPayload struct {
	User
	IsAuthenticated bool `json:"isAuthenticated"`
}

// AnonymousUser returns the sentinel snapshot representing "no session".
func AnonymousUser() UserPayload {
	return UserPayload{}
}
