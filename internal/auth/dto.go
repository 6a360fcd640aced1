package auth

import "github.com/scyware/assettrack-backend/pkg/db/models"

// LoginInput carries credentials; the identifier may be an email or username.
type LoginInput struct {
	Identifier string
	Password   string
}

// LoginResult bundles the signed access token with the authenticated account.
type LoginResult struct {
	Token string
	User  *models.User
}
