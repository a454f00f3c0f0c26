package analysispool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/bdfreeman1421/WoWAnalyzer/analysis"
	"github.com/bdfreeman1421/WoWAnalyzer/cache"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var (
	WebsocketUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	websockEmptyClosure = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")

	bufPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 16*1024))
		},
	}
)

// Runner renders one analysis request.
type Runner interface {
	Do(ctx context.Context, reqData *analysis.RequestData, progress func(p string), buf *bytes.Buffer) (analysis.State, bool)
}

type jobResult struct {
	state analysis.State
	ok    bool
}

// Verifier checks the bot protection token sent with a request.
type Verifier func(token string) bool

// Pool runs queued requests one at a time and answers repeated requests
// from the result cache.
type Pool struct {
	runner   Runner
	results  cache.Storage
	maxQueue int

	queueLock sync.Mutex
	queue     []*queueData
	queueWake chan struct{}

	pingInterval time.Duration
	closeDelay   time.Duration
}

func New(runner Runner, results cache.Storage, maxQueue int) *Pool {
	return &Pool{
		runner:       runner,
		results:      results,
		maxQueue:     maxQueue,
		queue:        make([]*queueData, 0, 16),
		queueWake:    make(chan struct{}, 1),
		pingInterval: 5 * time.Second,
		closeDelay:   time.Second,
	}
}

// Len is the number of requests waiting, the running one excluded.
func (p *Pool) Len() int {
	p.queueLock.Lock()
	defer p.queueLock.Unlock()

	return len(p.queue)
}

// Do serves one websocket connection until its request is answered.
func (p *Pool) Do(ctx context.Context, ws *websocket.Conn, verify Verifier) {
	ctx, ctxCancel := context.WithCancel(ctx)
	defer ctxCancel()

	q := queueData{
		id:         uuid.New(),
		ws:         ws,
		ctx:        ctx,
		ctxCancel:  ctxCancel,
		chanResult: make(chan jobResult, 1),
	}

	err := q.Ready()
	if err != nil {
		return
	}

	err = ws.ReadJSON(&q.reqData)
	if err != nil {
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			fmt.Printf("%+v\n", errors.WithStack(err))
		}
		return
	}
	go func() {
		for {
			_, r, err := ws.NextReader()
			if err != nil {
				ctxCancel()
				return
			}

			_, err = io.Copy(io.Discard, r)
			if err != nil && err != io.EOF {
				ctxCancel()
				return
			}
		}
	}()

	// a job abandoned while running may still write into buf
	recycle := true
	q.buf = bufPool.Get().(*bytes.Buffer)
	q.buf.Reset()
	defer func() {
		if recycle {
			bufPool.Put(q.buf)
		}
	}()

	h := q.reqData.Hash()
	switch {
	case verify != nil && !verify(q.reqData.Token):
		q.Error("verification failed")

	case p.results != nil && p.results.LoadRaw(h, q.buf):
		q.Succ(q.buf)

	default:
		go p.ping(&q)

		if !p.enqueue(&q) {
			q.Error("too many requests, try again later")
			break
		}

		select {
		case <-ctx.Done():
			recycle = false
		case res := <-q.chanResult:
			if res.ok {
				q.Succ(q.buf)
				// a report may be uploaded or a spec supported later
				if p.results != nil && res.state == analysis.StateComplete {
					p.results.SaveRaw(h, q.buf)
				}
			} else {
				q.Error("analysis failed")
			}
		}
	}

	time.Sleep(p.closeDelay)

	q.Close()
}

func (p *Pool) ping(q *queueData) {
	ticker := time.NewTicker(p.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := q.Ping()
			if err != nil {
				if err != websocket.ErrCloseSent {
					fmt.Printf("%+v\n", errors.WithStack(err))
				}
				q.ctxCancel()
				return
			}

		case <-q.ctx.Done():
			return
		}
	}
}

// enqueue reports the position before the worker can pick q up, so the
// client always sees waiting before start.
func (p *Pool) enqueue(q *queueData) bool {
	p.queueLock.Lock()
	defer p.queueLock.Unlock()

	if p.maxQueue > 0 && len(p.queue) >= p.maxQueue {
		return false
	}

	if len(p.queue) == 0 {
		select {
		case p.queueWake <- struct{}{}:
		default:
		}
	}
	p.queue = append(p.queue, q)
	q.Reorder(len(p.queue))

	return true
}

func (p *Pool) dequeue() *queueData {
	p.queueLock.Lock()
	defer p.queueLock.Unlock()

	if len(p.queue) == 0 {
		return nil
	}

	q := p.queue[0]
	for i := 1; i < len(p.queue); i++ {
		go p.queue[i].Reorder(i)
		p.queue[i-1] = p.queue[i]
	}
	p.queue[len(p.queue)-1] = nil
	p.queue = p.queue[:len(p.queue)-1]

	return q
}

// Run works through the queue until ctx is done.
func (p *Pool) Run(ctx context.Context) {
	for {
		q := p.dequeue()
		if q == nil {
			select {
			case <-p.queueWake:
				continue
			case <-ctx.Done():
				return
			}
		}

		p.work(q)
	}
}

func (p *Pool) work(q *queueData) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			log.Printf("Panic: %s %v", q.id, r)
			select {
			case q.chanResult <- jobResult{}:
			default:
			}
		}
	}()

	log.Printf("Start: %s %s#%v %s", q.id, q.reqData.ReportCode, q.reqData.FightIDs, q.reqData.PlayerName)
	q.Start()

	if q.ctx.Err() != nil {
		q.chanResult <- jobResult{}
	} else {
		state, ok := p.runner.Do(q.ctx, &q.reqData, q.Progress, q.buf)
		res := jobResult{state: state, ok: ok}
		select {
		case <-q.ctx.Done():
		case q.chanResult <- res:
		}
	}

	log.Printf("End: %s %s#%v %s", q.id, q.reqData.ReportCode, q.reqData.FightIDs, q.reqData.PlayerName)
}
