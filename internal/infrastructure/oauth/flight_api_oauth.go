package oauth

import (
	"context"
	"net/http"
	"time"

	"dispatch-booking-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// FlightAPIOAuth authenticates against the flight schedule provider
type FlightAPIOAuth struct {
	config  *clientcredentials.Config
	timeout time.Duration
	logger  logger.Logger
}

// NewFlightAPIOAuth creates a client-credentials handler. An empty clientID
// disables authentication.
func NewFlightAPIOAuth(clientID, clientSecret, tokenURL string, timeout time.Duration, logger logger.Logger) *FlightAPIOAuth {
	var config *clientcredentials.Config
	if clientID != "" {
		config = &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
	}

	return &FlightAPIOAuth{
		config:  config,
		timeout: timeout,
		logger:  logger,
	}
}

// HTTPClient returns a client that attaches and refreshes bearer tokens
func (o *FlightAPIOAuth) HTTPClient(ctx context.Context) *http.Client {
	base := &http.Client{Timeout: o.timeout}
	if o.config == nil {
		o.logger.Warn("Flight API credentials not configured, calling without authentication")
		return base
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := o.config.Client(ctx)
	client.Timeout = o.timeout
	return client
}

// Token fetches a token eagerly, useful to fail fast at startup
func (o *FlightAPIOAuth) Token(ctx context.Context) (*oauth2.Token, error) {
	if o.config == nil {
		return nil, nil
	}
	return o.config.Token(ctx)
}
