// Package auth obtains bearer tokens for automated Hermes clients.
//
// It covers the non-interactive flows used against test and CI deployments:
// OAuth2 client credentials, the resource-owner password grant (the only
// grant Dex offers static users), and Google service accounts with optional
// domain-wide delegation. Tokens are returned as raw strings ready for
// config.WithAuthToken or Client.SetAuthToken.
package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

const (
	DefaultDexIssuerURL = "http://localhost:5558/dex"
	DefaultDexClientID  = "hermes-testing"
	DefaultDexUsername  = "test@hermes.local"
	DefaultDexPassword  = "password"
)

// DefaultScopes are requested when a flow does not name its own.
var DefaultScopes = []string{oidc.ScopeOpenID, "email", "profile"}

// Error is returned by every function in this package.
type Error struct {
	Op  string
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// TokenURL returns the token endpoint advertised by the issuer's OIDC
// discovery document, or issuer + "/token" when discovery fails.
func TokenURL(ctx context.Context, issuer string) string {
	issuer = strings.TrimRight(issuer, "/")
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil || provider.Endpoint().TokenURL == "" {
		return issuer + "/token"
	}
	return provider.Endpoint().TokenURL
}

// ClientCredentials configures the client credentials grant.
type ClientCredentials struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// ClientCredentialsToken exchanges client credentials for an access token.
func ClientCredentialsToken(ctx context.Context, cc ClientCredentials) (string, error) {
	const op = "client credentials"
	if cc.IssuerURL == "" || cc.ClientID == "" {
		return "", &Error{Op: op, Msg: "issuer URL and client ID are required"}
	}

	tokenURL := TokenURL(ctx, cc.IssuerURL)
	cfg := clientcredentials.Config{
		ClientID:     cc.ClientID,
		ClientSecret: cc.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopesOrDefault(cc.Scopes),
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tok, err := cfg.Token(ctx)
	if err != nil {
		return "", &Error{Op: op, Msg: "failed to get token from " + tokenURL, Err: err}
	}
	return tok.AccessToken, nil
}

// PasswordGrant configures the resource-owner password grant. Use it only
// with test accounts.
type PasswordGrant struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Scopes       []string
}

// PasswordGrantToken exchanges a username and password for an access token.
func PasswordGrantToken(ctx context.Context, pg PasswordGrant) (string, error) {
	const op = "password grant"
	if pg.IssuerURL == "" || pg.ClientID == "" || pg.Username == "" {
		return "", &Error{Op: op, Msg: "issuer URL, client ID and username are required"}
	}

	tokenURL := TokenURL(ctx, pg.IssuerURL)
	cfg := oauth2.Config{
		ClientID:     pg.ClientID,
		ClientSecret: pg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: scopesOrDefault(pg.Scopes),
	}
	tok, err := cfg.PasswordCredentialsToken(ctx, pg.Username, pg.Password)
	if err != nil {
		return "", &Error{Op: op, Msg: fmt.Sprintf("failed to authenticate %s at %s", pg.Username, tokenURL), Err: err}
	}
	return tok.AccessToken, nil
}

// DexTestToken runs the password grant against a local Dex. Empty fields are
// filled from DEX_ISSUER_URL, DEX_CLIENT_ID, DEX_TEST_USERNAME,
// DEX_TEST_PASSWORD and DEX_CLIENT_SECRET, then from the package defaults.
func DexTestToken(ctx context.Context, pg PasswordGrant) (string, error) {
	pg.IssuerURL = firstNonEmpty(pg.IssuerURL, os.Getenv("DEX_ISSUER_URL"), DefaultDexIssuerURL)
	pg.ClientID = firstNonEmpty(pg.ClientID, os.Getenv("DEX_CLIENT_ID"), DefaultDexClientID)
	pg.Username = firstNonEmpty(pg.Username, os.Getenv("DEX_TEST_USERNAME"), DefaultDexUsername)
	pg.Password = firstNonEmpty(pg.Password, os.Getenv("DEX_TEST_PASSWORD"), DefaultDexPassword)
	pg.ClientSecret = firstNonEmpty(pg.ClientSecret, os.Getenv("DEX_CLIENT_SECRET"))
	return PasswordGrantToken(ctx, pg)
}

// GoogleServiceAccount configures a service account token request.
type GoogleServiceAccount struct {
	// CredentialsFile defaults to GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsFile string

	// Subject is the user to impersonate. Defaults to
	// GOOGLE_WORKSPACE_ADMIN_EMAIL.
	Subject string

	Scopes []string
}

// GoogleServiceAccountToken signs a JWT assertion with the service account
// key and exchanges it for an access token.
func GoogleServiceAccountToken(ctx context.Context, sa GoogleServiceAccount) (string, error) {
	const op = "google service account"

	path := firstNonEmpty(sa.CredentialsFile, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	if path == "" {
		return "", &Error{Op: op, Msg: "service account file required; set GOOGLE_APPLICATION_CREDENTIALS"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Op: op, Msg: "error reading credentials", Err: err}
	}

	scopes := sa.Scopes
	if len(scopes) == 0 {
		scopes = append(append([]string{}, DefaultScopes...), drive.DriveReadonlyScope)
	}
	cfg, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return "", &Error{Op: op, Msg: "invalid credentials", Err: err}
	}
	cfg.Subject = firstNonEmpty(sa.Subject, os.Getenv("GOOGLE_WORKSPACE_ADMIN_EMAIL"))

	tok, err := cfg.TokenSource(ctx).Token()
	if err != nil {
		return "", &Error{Op: op, Msg: "failed to get token", Err: err}
	}
	return tok.AccessToken, nil
}

// DecodeClaims returns the claims of a JWT without verifying its signature.
func DecodeClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, &Error{Op: "decode token", Msg: "invalid JWT", Err: err}
	}
	return claims, nil
}

// ExpiresAt returns the exp claim of a JWT.
func ExpiresAt(token string) (time.Time, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, &Error{Op: "decode token", Msg: "invalid exp claim", Err: err}
	}
	if exp == nil {
		return time.Time{}, &Error{Op: "decode token", Msg: "token has no exp claim"}
	}
	return exp.Time, nil
}

func scopesOrDefault(scopes []string) []string {
	if len(scopes) == 0 {
		return DefaultScopes
	}
	return scopes
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
