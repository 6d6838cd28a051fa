package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	jsonv2 "github.com/go-json-experiment/json"
)

const versionLookupTimeout = 5 * time.Second

var errConnectionClosed = errors.New("cdp connection closed")

// browserConn is a browser-level DevTools connection. It sends only the
// commands it is asked to send and never opens or closes targets itself.
type browserConn struct {
	conn *chromedp.Conn

	writeMu sync.Mutex
	seq     atomic.Int64

	pendingMu sync.Mutex
	pending   map[int64]chan *cdproto.Message

	listenMu  sync.RWMutex
	listeners []func(sessionID target.SessionID, ev any)

	done    chan struct{}
	readErr error
}

var _ cdp.Executor = (*browserConn)(nil)

func dialBrowser(ctx context.Context, cdpURL string) (*browserConn, error) {
	wsURL, err := browserWSURL(ctx, cdpURL)
	if err != nil {
		return nil, fmt.Errorf("resolve browser websocket: %w", err)
	}

	slog.Debug("cdp connecting", "ws_url", wsURL)
	conn, err := chromedp.DialContext(ctx, wsURL)
	if err != nil {
		return nil, fmt.Errorf("dial browser: %w", err)
	}

	b := &browserConn{
		conn:    conn,
		pending: make(map[int64]chan *cdproto.Message),
		done:    make(chan struct{}),
	}
	go b.readLoop()
	return b, nil
}

func (b *browserConn) Close() error {
	err := b.conn.Close()
	<-b.done
	return err
}

// Done is closed once the connection stops reading.
func (b *browserConn) Done() <-chan struct{} {
	return b.done
}

// Err reports why the connection stopped. Only valid after Done is closed.
func (b *browserConn) Err() error {
	return b.readErr
}

func (b *browserConn) listen(fn func(sessionID target.SessionID, ev any)) {
	b.listenMu.Lock()
	defer b.listenMu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Execute runs a browser-level command.
func (b *browserConn) Execute(ctx context.Context, method string, params, res any) error {
	return b.execute(ctx, "", method, params, res)
}

// session returns an executor for commands on an attached flat session.
func (b *browserConn) session(id target.SessionID) cdp.Executor {
	return sessionExecutor{conn: b, id: id}
}

type sessionExecutor struct {
	conn *browserConn
	id   target.SessionID
}

func (s sessionExecutor) Execute(ctx context.Context, method string, params, res any) error {
	return s.conn.execute(ctx, s.id, method, params, res)
}

func (b *browserConn) execute(ctx context.Context, sessionID target.SessionID, method string, params, res any) error {
	var buf []byte
	if params != nil {
		var err error
		if buf, err = jsonv2.Marshal(params, chromedp.DefaultMarshalOptions); err != nil {
			return fmt.Errorf("encode %s: %w", method, err)
		}
	}

	id := b.seq.Add(1)
	ch := make(chan *cdproto.Message, 1)
	b.pendingMu.Lock()
	b.pending[id] = ch
	b.pendingMu.Unlock()
	defer b.deletePending(id)

	msg := &cdproto.Message{
		ID:        id,
		SessionID: sessionID,
		Method:    cdproto.MethodType(method),
		Params:    buf,
	}

	b.writeMu.Lock()
	err := b.conn.Write(ctx, msg)
	b.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return fmt.Errorf("%s: %w", method, errConnectionClosed)
	case resp := <-ch:
		if resp.Error != nil {
			return fmt.Errorf("%s: %w", method, resp.Error)
		}
		if res == nil || len(resp.Result) == 0 {
			return nil
		}
		return jsonv2.Unmarshal(resp.Result, res, chromedp.DefaultUnmarshalOptions)
	}
}

func (b *browserConn) deletePending(id int64) {
	b.pendingMu.Lock()
	delete(b.pending, id)
	b.pendingMu.Unlock()
}

func (b *browserConn) readLoop() {
	defer close(b.done)

	for {
		msg := new(cdproto.Message)
		if err := b.conn.Read(context.Background(), msg); err != nil {
			b.readErr = err
			slog.Debug("cdp read loop exit", "error", err)
			return
		}

		switch {
		case msg.ID != 0:
			b.pendingMu.Lock()
			ch, ok := b.pending[msg.ID]
			b.pendingMu.Unlock()
			if ok {
				ch <- msg
			}
		case msg.Method != "":
			b.dispatch(msg)
		}
	}
}

func (b *browserConn) dispatch(msg *cdproto.Message) {
	ev, err := cdproto.UnmarshalMessage(msg, chromedp.DefaultUnmarshalOptions)
	if err != nil {
		slog.Debug("cdp event skipped", "method", msg.Method, "error", err)
		return
	}

	b.listenMu.RLock()
	listeners := make([]func(target.SessionID, any), len(b.listeners))
	copy(listeners, b.listeners)
	b.listenMu.RUnlock()

	for _, fn := range listeners {
		fn(msg.SessionID, ev)
	}
}

// browserWSURL accepts either a browser websocket URL or the DevTools HTTP
// endpoint, which is asked for the websocket URL via /json/version.
func browserWSURL(ctx context.Context, cdpURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(cdpURL))
	if err != nil {
		return "", fmt.Errorf("parse cdp url: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		if strings.Contains(u.Path, "/devtools/browser/") {
			return u.String(), nil
		}
		u.Scheme = strings.Replace(u.Scheme, "ws", "http", 1)
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported cdp url scheme %q", u.Scheme)
	}

	u.Path = "/json/version"
	u.RawQuery = ""

	ctx, cancel := context.WithTimeout(ctx, versionLookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("/json/version: HTTP %d", resp.StatusCode)
	}

	var info struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode /json/version: %w", err)
	}
	if info.WebSocketDebuggerURL == "" {
		return "", errors.New("empty webSocketDebuggerUrl")
	}

	return info.WebSocketDebuggerURL, nil
}
