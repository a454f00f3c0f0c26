package analysispool

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bdfreeman1421/WoWAnalyzer/analysis"
	"github.com/bdfreeman1421/WoWAnalyzer/cache"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
)

type fakeRunner struct {
	calls int32
	state analysis.State
	ok    bool
}

func (f *fakeRunner) Do(ctx context.Context, reqData *analysis.RequestData, progress func(p string), buf *bytes.Buffer) (analysis.State, bool) {
	atomic.AddInt32(&f.calls, 1)
	progress("working")
	buf.WriteString("<p>" + reqData.PlayerName + "</p>")
	return f.state, f.ok
}

type received struct {
	Event string
	Data  string
}

func startServer(t *testing.T, p *Pool, verify Verifier) string {
	t.Helper()

	p.closeDelay = 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := WebsocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		p.Do(r.Context(), ws, verify)
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// exchange sends req and collects every message until the server closes.
func exchange(t *testing.T, url string, req analysis.RequestData) []received {
	t.Helper()

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()
	ws.SetReadDeadline(time.Now().Add(10 * time.Second))

	var msgs []received
	read := func() bool {
		_, b, err := ws.ReadMessage()
		if err != nil {
			return false
		}

		var m struct {
			Event string              `json:"event"`
			Data  jsoniter.RawMessage `json:"data"`
		}
		if err := jsoniter.Unmarshal(b, &m); err != nil {
			t.Fatal(err)
		}

		var data string
		if len(m.Data) > 0 && m.Data[0] == '"' {
			jsoniter.Unmarshal(m.Data, &data)
		} else {
			data = string(m.Data)
		}
		msgs = append(msgs, received{m.Event, data})
		return true
	}

	if !read() {
		t.Fatal("no ready message")
	}
	if err := ws.WriteJSON(&req); err != nil {
		t.Fatal(err)
	}
	for read() {
	}

	return msgs
}

func events(msgs []received) string {
	s := make([]string, len(msgs))
	for i, m := range msgs {
		s[i] = m.Event
	}
	return strings.Join(s, ",")
}

var testRequest = analysis.RequestData{
	ReportCode: "aBcD1234eFgH5678",
	FightIDs:   []int{1},
	PlayerName: "Drake",
}

func TestPoolCompletesAndCaches(t *testing.T) {
	results, err := cache.NewStorage(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{state: analysis.StateComplete, ok: true}
	p := New(runner, results, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	url := startServer(t, p, nil)

	msgs := exchange(t, url, testRequest)
	if got := events(msgs); got != "ready,waiting,start,progress,complete" {
		t.Fatalf("events = %s", got)
	}
	if _, err := uuid.Parse(msgs[0].Data); err != nil {
		t.Errorf("ready should carry a request id: %q", msgs[0].Data)
	}
	if msgs[1].Data != "1" {
		t.Errorf("queue position = %s", msgs[1].Data)
	}
	if msgs[4].Data != "<p>Drake</p>" {
		t.Errorf("result = %q", msgs[4].Data)
	}

	msgs = exchange(t, url, testRequest)
	if got := events(msgs); got != "ready,complete" {
		t.Fatalf("cached events = %s", got)
	}
	if atomic.LoadInt32(&runner.calls) != 1 {
		t.Errorf("runner called %d times", runner.calls)
	}
}

func TestPoolCachesOnlyCompleteResults(t *testing.T) {
	tests := []struct {
		name  string
		state analysis.State
	}{
		{"report not found", analysis.StateNotFound},
		{"unsupported spec", analysis.StateUnsupported},
		{"invalid request", analysis.StateInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := cache.NewStorage(t.TempDir(), time.Hour)
			if err != nil {
				t.Fatal(err)
			}

			runner := &fakeRunner{state: tt.state, ok: true}
			p := New(runner, results, 0)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go p.Run(ctx)

			url := startServer(t, p, nil)
			for i := 0; i < 2; i++ {
				msgs := exchange(t, url, testRequest)
				if got := events(msgs); got != "ready,waiting,start,progress,complete" {
					t.Fatalf("request %d events = %s", i, got)
				}
			}
			if atomic.LoadInt32(&runner.calls) != 2 {
				t.Errorf("runner called %d times, want 2", runner.calls)
			}
		})
	}
}

func TestPoolFailures(t *testing.T) {
	tests := []struct {
		name   string
		ok     bool
		verify Verifier
		want   string
	}{
		{"analysis failed", false, nil, "analysis failed"},
		{"verification failed", true, func(token string) bool { return token == "human" }, "verification failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(&fakeRunner{state: analysis.StateComplete, ok: tt.ok}, nil, 0)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go p.Run(ctx)

			msgs := exchange(t, startServer(t, p, tt.verify), testRequest)
			last := msgs[len(msgs)-1]
			if last.Event != "error" || last.Data != tt.want {
				t.Errorf("last message = %+v", last)
			}
		})
	}
}

func TestPoolQueueFull(t *testing.T) {
	// no worker: the first request stays queued
	p := New(&fakeRunner{state: analysis.StateComplete, ok: true}, nil, 1)
	url := startServer(t, p, nil)

	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()
	first.ReadMessage()
	if err := first.WriteJSON(&testRequest); err != nil {
		t.Fatal(err)
	}
	first.SetReadDeadline(time.Now().Add(10 * time.Second))
	if _, b, err := first.ReadMessage(); err != nil || !strings.Contains(string(b), "waiting") {
		t.Fatalf("first request not queued: %s %v", b, err)
	}

	msgs := exchange(t, url, testRequest)
	last := msgs[len(msgs)-1]
	if last.Event != "error" || !strings.Contains(last.Data, "too many requests") {
		t.Errorf("last message = %+v", last)
	}
	if p.Len() != 1 {
		t.Errorf("queue length = %d", p.Len())
	}
}
