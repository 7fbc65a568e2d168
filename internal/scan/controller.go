package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"misinfoguard/internal/models"
	"misinfoguard/pkg/logger"
)

// Analyzer is the outbound call a scan makes.
type Analyzer interface {
	Analyze(ctx context.Context, topic string) (*models.AnalysisResponse, models.ScanMetadata, error)
}

// statusCoder is satisfied by transport errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

type Option func(*Controller)

// WithObserver registers fn to be called after every transition, in
// transition order. fn may read View but must not call Submit or Scan.
func WithObserver(fn func(View)) Option {
	return func(c *Controller) { c.observers = append(c.observers, fn) }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller owns the scan lifecycle. At most one request is outstanding;
// a Submit while one is in flight is a no-op.
type Controller struct {
	api       Analyzer
	log       *logger.Logger
	observers []func(View)

	mu       sync.Mutex
	view     View
	inFlight bool
	settled  chan struct{}

	// seq numbers transitions under mu; delivered trails it as observers
	// finish, so notifications go out in transition order without mu held.
	seq       uint64
	notifyMu  sync.Mutex
	turn      *sync.Cond
	delivered uint64
}

func New(api Analyzer, opts ...Option) *Controller {
	c := &Controller{api: api, view: Idle{}}
	c.turn = sync.NewCond(&c.notifyMu)
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = logger.Discard()
	}
	return c
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Submit starts a scan of topic and reports whether it was accepted.
// ctx governs the outbound request only.
func (c *Controller) Submit(ctx context.Context, topic string) bool {
	_, ok := c.submit(ctx, topic)
	return ok
}

// Scan submits topic and blocks until that scan settles. When the scan is
// rejected it returns the current view and false.
func (c *Controller) Scan(ctx context.Context, topic string) (View, bool) {
	done, ok := c.submit(ctx, topic)
	if !ok {
		return c.View(), false
	}
	<-done
	return c.View(), true
}

// Wait blocks until no scan is in flight or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	if !c.inFlight {
		c.mu.Unlock()
		return nil
	}
	done := c.settled
	c.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) submit(ctx context.Context, topic string) (<-chan struct{}, bool) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		c.log.Debugf("scan rejected: another scan is in flight")
		return nil, false
	}
	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		c.setLocked(Failed{Kind: ValidationError, Message: MsgEmptyTopic})
		return nil, false
	}

	c.inFlight = true
	done := make(chan struct{})
	c.settled = done
	c.setLocked(Loading{Topic: trimmed})

	c.log.Infof("scan accepted topic=%q", trimmed)
	go c.run(ctx, trimmed, done)
	return done, true
}

func (c *Controller) run(ctx context.Context, topic string, done chan struct{}) {
	start := time.Now()
	var next View = Failed{Kind: TransportError, Message: MsgGenericError}

	defer func() {
		if r := recover(); r != nil {
			c.log.Errorf("scan panicked topic=%q: %v", topic, r)
			next = Failed{Kind: TransportError, Message: MsgGenericError}
		}
		c.mu.Lock()
		c.inFlight = false
		c.setLocked(next)
		close(done)
	}()

	resp, meta, err := c.api.Analyze(ctx, topic)
	next = settle(topic, resp, meta, err)

	elapsed := time.Since(start)
	switch v := next.(type) {
	case Results:
		c.log.Infof("scan settled topic=%q claims=%d cached=%t trace=%s request=%s took=%s",
			topic, len(v.Claims), v.Meta.Cached, v.Meta.TraceID, v.Meta.RequestID, elapsed)
	case Empty:
		c.log.Infof("scan settled topic=%q claims=0 request=%s took=%s", topic, meta.RequestID, elapsed)
	case Failed:
		c.log.Errorf("scan failed topic=%q kind=%s request=%s: %v", topic, v.Kind, meta.RequestID, err)
	}
}

func settle(topic string, resp *models.AnalysisResponse, meta models.ScanMetadata, err error) View {
	if err != nil {
		var sc statusCoder
		if errors.As(err, &sc) {
			return Failed{Kind: HTTPError, Message: fmt.Sprintf("Failed to analyze topic (%d)", sc.StatusCode())}
		}
		msg := strings.TrimSpace(err.Error())
		if msg == "" {
			msg = MsgGenericError
		}
		return Failed{Kind: TransportError, Message: msg}
	}
	if resp == nil || len(resp.Claims) == 0 {
		return Empty{Topic: topic, Message: MsgNoClaims}
	}
	return Results{Topic: topic, Claims: resp.Claims, Meta: meta}
}

// setLocked installs v and releases c.mu, then notifies observers once
// every earlier transition has been delivered. The caller must hold c.mu.
func (c *Controller) setLocked(v View) {
	c.view = v
	c.seq++
	n := c.seq
	c.mu.Unlock()

	c.notifyMu.Lock()
	for c.delivered != n-1 {
		c.turn.Wait()
	}
	c.notifyMu.Unlock()

	for _, fn := range c.observers {
		fn(v)
	}

	c.notifyMu.Lock()
	c.delivered = n
	c.turn.Broadcast()
	c.notifyMu.Unlock()
}
