package analysispool

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bdfreeman1421/WoWAnalyzer/analysis"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type queueData struct {
	id      uuid.UUID
	reqData analysis.RequestData

	ws        *websocket.Conn
	ctx       context.Context
	ctxCancel func()

	buf *bytes.Buffer

	chanResult chan jobResult

	msgLock sync.Mutex
}

var (
	eventRespBufferPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 16*1024))
		},
	}

	eventStart = []byte(`{"event":"start"}`)
)

type message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

func (q *queueData) MessageJson(resp interface{}) error {
	buf := eventRespBufferPool.Get().(*bytes.Buffer)
	defer eventRespBufferPool.Put(buf)

	buf.Reset()

	err := jsoniter.NewEncoder(buf).Encode(resp)
	if err != nil {
		sentry.CaptureException(err)
		fmt.Printf("%+v\n", errors.WithStack(err))
		return err
	}

	return q.MessageBytes(buf.Bytes())
}

func (q *queueData) MessageBytes(data []byte) error {
	q.msgLock.Lock()
	defer q.msgLock.Unlock()

	return q.ws.WriteMessage(websocket.TextMessage, data)
}

// failed drops the connection when a message could not be delivered.
func (q *queueData) failed(err error) {
	if err == nil {
		return
	}
	if err != websocket.ErrCloseSent {
		fmt.Printf("%+v\n", errors.WithStack(err))
	}
	q.ctxCancel()
}

func (q *queueData) Ready() error {
	err := q.MessageJson(&message{
		Event: "ready",
		Data:  q.id.String(),
	})
	q.failed(err)
	return err
}

func (q *queueData) Reorder(order int) {
	q.failed(q.MessageJson(&message{
		Event: "waiting",
		Data:  order,
	}))
}

func (q *queueData) Start() {
	q.failed(q.MessageBytes(eventStart))
}

func (q *queueData) Progress(s string) {
	q.failed(q.MessageJson(&message{
		Event: "progress",
		Data:  s,
	}))
}

func (q *queueData) Error(reason string) {
	q.failed(q.MessageJson(&message{
		Event: "error",
		Data:  reason,
	}))
}

func (q *queueData) Succ(buf *bytes.Buffer) {
	q.failed(q.MessageJson(&message{
		Event: "complete",
		Data:  buf.String(),
	}))
}

func (q *queueData) Ping() error {
	return q.ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(5*time.Second))
}

func (q *queueData) Close() {
	q.msgLock.Lock()
	defer q.msgLock.Unlock()

	err := q.ws.WriteMessage(websocket.CloseMessage, websockEmptyClosure)
	if err != nil && err != websocket.ErrCloseSent {
		fmt.Printf("%+v\n", errors.WithStack(err))
	}

	q.ws.Close()
}
