// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Protocols known to the passport store. Any other non-empty value names a
// third-party standard and is accepted as-is.
const (
	ProtocolLocal  = "local"
	ProtocolBasic  = "basic"
	ProtocolOpenID = "openid"
	ProtocolOAuth  = "oauth"
	ProtocolOAuth2 = "oauth2"
)

// ProviderLocal is the reserved provider name of password passports and the
// default when no provider is given.
const ProviderLocal = "local"

// Keys used in Passport.Tokens.
const (
	TokenKeyToken        = "token"        // OAuth 1.0
	TokenKeyTokenSecret  = "tokenSecret"  // OAuth 1.0
	TokenKeyAccessToken  = "accessToken"  // OAuth 2.0
	TokenKeyRefreshToken = "refreshToken" // OAuth 2.0
)

// Passport binds one authentication method to one user. A user may own any
// number of passports, e.g. a password plus several linked providers.
//
// Which field group is meaningful depends on Protocol: local passports use
// Password and AccessToken, third-party passports use Provider, Identifier and Tokens.
type Passport struct {
	ID          uuid.UUID         // Identity of the passport record itself.
	Protocol    string            // "local" for passwords, otherwise the third-party standard, e.g. "openid".
	Password    string            // Hashed password. Local passports only.
	AccessToken string            // Token for API calls, issued when a local passport is created.
	Provider    string            // Lowercase third-party service name, e.g. "github". Defaults to "local".
	Identifier  string            // Provider-specific key, typically the remote user ID.
	Tokens      map[string]string // OAuth credentials issued by the provider.
	UserID      uuid.UUID         // The owning user.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLocal reports whether the passport uses the local password strategy.
func (p *Passport) IsLocal() bool {
	return p.Protocol == ProtocolLocal
}

// ProviderOrDefault returns the provider name, falling back to ProviderLocal.
func (p *Passport) ProviderOrDefault() string {
	if p.Provider == "" {
		return ProviderLocal
	}

	return p.Provider
}

// HasFilter reports whether p carries at least one field that can identify a record.
func (p *Passport) HasFilter() bool {
	return p.ID != uuid.Nil ||
		p.UserID != uuid.Nil ||
		p.Protocol != "" ||
		p.Provider != "" ||
		p.Identifier != ""
}

// OAuth1Tokens builds the token bag issued by OAuth 1.0 providers.
func OAuth1Tokens(token, tokenSecret string) map[string]string {
	return map[string]string{
		TokenKeyToken:       token,
		TokenKeyTokenSecret: tokenSecret,
	}
}

// OAuth2Tokens builds the token bag issued by OAuth 2.0 providers.
func OAuth2Tokens(accessToken, refreshToken string) map[string]string {
	return map[string]string{
		TokenKeyAccessToken:  accessToken,
		TokenKeyRefreshToken: refreshToken,
	}
}
