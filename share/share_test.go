package share

import (
	"bytes"
	"context"
	"html/template"
	"net/url"
	"testing"

	"github.com/pkg/errors"
)

func TestIsContextClosedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"url wrapped", &url.Error{Op: "Post", URL: "http://x", Err: context.Canceled}, true},
		{"stack wrapped", errors.WithStack(context.Canceled), true},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContextClosedError(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemplateFuncMap(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(TemplateFuncMap).Parse(
		`{{ fn .I }} {{ fn .F }} {{ duration .D }} {{ spellURL .S }}`,
	))

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, map[string]interface{}{
		"I": int64(1234567),
		"F": 1234.56,
		"D": int64(95500),
		"S": 31821,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := "1,234,567 1,234.6 1m35s https://www.wowhead.com/spell=31821"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name    string
		proxy   string
		wantErr bool
	}{
		{"environment", "", false},
		{"local proxy", "http://127.0.0.1:50000", false},
		{"no host", "127.0.0.1", true},
		{"broken", "http://[::1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewHTTPClient(tt.proxy)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if err == nil && c.Timeout == 0 {
				t.Error("client should time out")
			}
		})
	}
}
