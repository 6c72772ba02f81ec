package auth

import (
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID string
	Name   string
	Email  string
	Role   enums.UserRole
	Avatar string
	JTI    string
}

// AccessTokenClaims represents the typed JWT carried by clients.
type AccessTokenClaims struct {
	UserID string         `json:"user_id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Role   enums.UserRole `json:"role"`
	Avatar string         `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// User maps the claims onto the storefront identity type.
func (c *AccessTokenClaims) User() types.User {
	return types.User{
		ID:     c.UserID,
		Name:   c.Name,
		Email:  c.Email,
		Role:   c.Role,
		Avatar: c.Avatar,
	}
}
