package hubspot

import (
	"context"

	"github.com/kbukum/hubspotkit/httpclient"
)

// Transport sends a single HTTP request. *httpclient.Adapter satisfies it.
//
// A Transport returns a response for every status it received; a returned
// error without a response is a transport failure, classified with
// httpclient.IsTimeout, IsConnection and IsCanceled.
type Transport interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

var _ Transport = (*httpclient.Adapter)(nil)

// newAdapter builds the default transport. Keep-alives are off so every
// attempt and every health probe opens and releases its own connection.
func newAdapter(cfg Config) (*httpclient.Adapter, error) {
	hc := httpclient.Config{
		Timeout:           cfg.Timeout,
		Headers:           cfg.Headers,
		DisableKeepAlives: true,
	}
	if cfg.AuthToken != "" {
		switch cfg.AuthScheme {
		case AuthSchemeBearer:
			hc.Auth = httpclient.BearerAuth(cfg.AuthToken)
		case AuthSchemeQuery:
			hc.Auth = httpclient.APIKeyAuthQuery(cfg.AuthToken, cfg.AuthParam)
		}
	}
	return httpclient.New(hc)
}

// send issues req and separates transport failures from HTTP statuses:
// any received response is returned without error.
func send(ctx context.Context, t Transport, req httpclient.Request) (*httpclient.Response, error) {
	resp, err := t.Do(ctx, req)
	if resp != nil {
		return resp, nil
	}
	if err == nil {
		return nil, httpclient.NewConnectionError(errEmptyResponse)
	}
	return nil, err
}
