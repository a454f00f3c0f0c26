package wcl

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/bdfreeman1421/WoWAnalyzer/cache"
	"github.com/bdfreeman1421/WoWAnalyzer/config"
	"github.com/bdfreeman1421/WoWAnalyzer/share"

	"github.com/getsentry/sentry-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	maxRetries = 3
)

var (
	//go:embed query/*.tmpl
	QueryFS embed.FS

	queryFuncs = template.FuncMap{
		"ints": func(v []int) string {
			s := make([]string, len(v))
			for i, n := range v {
				s[i] = strconv.Itoa(n)
			}
			return strings.Join(s, ", ")
		},
	}

	tmplReport = template.Must(template.New("report.tmpl").Funcs(queryFuncs).ParseFS(QueryFS, "query/report.tmpl"))
	tmplEvents = template.Must(template.New("events.tmpl").Funcs(queryFuncs).ParseFS(QueryFS, "query/events.tmpl"))

	strBufPool = sync.Pool{
		New: func() interface{} {
			sb := new(strings.Builder)
			sb.Grow(16 * 1024)
			return sb
		},
	}
	bytBufPool = sync.Pool{
		New: func() interface{} {
			buf := new(bytes.Buffer)
			buf.Grow(16 * 1024)
			return buf
		},
	}
)

// GraphQLError is an error list returned by the API with a 200 status.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("warcraftlogs: http %d", e.StatusCode)
}

// Client talks to the Warcraft Logs v2 API.
type Client struct {
	token   *tokenSource
	apiURL  string
	http    *http.Client
	limiter *rate.Limiter

	// event pages, may be nil
	pages cache.Storage

	retryWait time.Duration
}

func New(cfg config.WCLConfig, pages cache.Storage) (*Client, error) {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	hc, err := share.NewHTTPClient(cfg.Proxy)
	if err != nil {
		return nil, err
	}

	return &Client{
		token: &tokenSource{
			tokenURL:     cfg.TokenURL,
			clientID:     cfg.ClientID,
			clientSecret: cfg.ClientSecret,
			http:         hc,
		},
		apiURL:    cfg.APIURL,
		http:      hc,
		limiter:   rate.NewLimiter(limit, burst),
		pages:     pages,
		retryWait: 3 * time.Second,
	}, nil
}

func (c *Client) CallGraphQL(ctx context.Context, tmpl *template.Template, tmplData interface{}, respData interface{}) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = c.callGraphQLInner(ctx, tmpl, tmplData, respData)

		if err == nil {
			break
		}
		if share.IsContextClosedError(err) {
			return err
		}
		if _, ok := errors.Cause(err).(*GraphQLError); ok {
			return err
		}
		if i+1 < maxRetries {
			select {
			case <-time.After(c.retryWait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}

func (c *Client) callGraphQLInner(ctx context.Context, tmpl *template.Template, tmplData interface{}, respData interface{}) error {
	sb := strBufPool.Get().(*strings.Builder)
	defer strBufPool.Put(sb)

	sb.Reset()
	err := tmpl.Execute(sb, tmplData)
	if err != nil {
		sentry.CaptureException(err)
		fmt.Printf("%+v\n", errors.WithStack(err))
		return err
	}

	queryData := struct {
		Query string `json:"query"`
	}{
		Query: sb.String(),
	}

	buf := bytBufPool.Get().(*bytes.Buffer)
	defer bytBufPool.Put(buf)

	buf.Reset()
	err = jsoniter.NewEncoder(buf).Encode(&queryData)
	if err != nil {
		sentry.CaptureException(err)
		fmt.Printf("%+v\n", errors.WithStack(err))
		return err
	}

	err = c.limiter.Wait(ctx)
	if err != nil {
		return err
	}

	req, err := c.token.NewRequest(ctx, "POST", c.apiURL, buf)
	if err != nil {
		if !share.IsContextClosedError(err) {
			sentry.CaptureException(err)
			fmt.Printf("%+v\n", err)
		}
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if !share.IsContextClosedError(err) {
			sentry.CaptureException(err)
			fmt.Printf("%+v\n", errors.WithStack(err))
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.token.Reset()
	}
	if resp.StatusCode/100 != 2 {
		return errors.WithStack(&StatusError{StatusCode: resp.StatusCode})
	}

	var body struct {
		Data   jsoniter.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	err = jsoniter.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		sentry.CaptureException(err)
		fmt.Printf("%+v\n", errors.WithStack(err))
		return err
	}

	if len(body.Errors) > 0 {
		ge := &GraphQLError{}
		for _, e := range body.Errors {
			ge.Messages = append(ge.Messages, e.Message)
		}
		return errors.WithStack(ge)
	}

	err = jsoniter.Unmarshal(body.Data, respData)
	if err != nil {
		sentry.CaptureException(err)
		fmt.Printf("%+v\n", errors.WithStack(err))
		return err
	}

	return nil
}
