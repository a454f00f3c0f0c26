package share

import (
	"net/http"

	"github.com/getsentry/sentry-go"
)

// InitSentry sets up error reporting. An empty dsn turns reporting into a no-op.
func InitSentry(dsn string) error {
	return sentry.Init(
		sentry.ClientOptions{
			Dsn:           dsn,
			HTTPTransport: new(http.Transport),
		},
	)
}
