package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer sends "Authorization: Bearer <token>".
	AuthBearer
	// AuthQueryKey sends the key as a query parameter.
	AuthQueryKey
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type AuthType
	// Token is the bearer token (AuthBearer) or the key (AuthQueryKey).
	Token string
	// Param is the query parameter name (AuthQueryKey).
	Param string
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, param string) *AuthConfig {
	return &AuthConfig{Type: AuthQueryKey, Token: key, Param: param}
}

// apply applies authentication to an HTTP request. A query key replaces any
// caller-supplied parameter of the same name.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthQueryKey:
		q := req.URL.Query()
		q.Set(a.Param, a.Token)
		req.URL.RawQuery = q.Encode()
	}
}
