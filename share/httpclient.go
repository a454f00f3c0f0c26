package share

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// NewHTTPClient returns a client tuned for long paginated downloads. A
// non-empty proxy routes every request through it, which is how local
// debugging proxies are attached.
func NewHTTPClient(proxy string) (*http.Client, error) {
	tr := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxConnsPerHost:       0,
		MaxIdleConns:          0,
		MaxIdleConnsPerHost:   64,
		ResponseHeaderTimeout: 30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		ExpectContinueTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
	}

	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, errors.Wrapf(err, "proxy %q", proxy)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, errors.Errorf("proxy %q: scheme and host are required", proxy)
		}
		tr.Proxy = http.ProxyURL(u)
	}

	return &http.Client{
		Timeout:   time.Minute,
		Transport: tr,
	}, nil
}
