package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultSuccessTTL = 3 * time.Second
	DefaultErrorTTL   = 4 * time.Second
)

// Center holds the notifications currently on screen. Each one dismisses
// itself after its TTL; a new notification never cancels an older one.
type Center struct {
	mu     sync.Mutex
	active []domain.Notification
	timers map[uint64]*time.Timer
	nextID uint64
	closed bool

	ttl    map[domain.NotificationKind]time.Duration
	echo   io.Writer
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Center)

func WithTTL(kind domain.NotificationKind, ttl time.Duration) Option {
	return func(c *Center) {
		c.ttl[kind] = ttl
	}
}

// WithEcho also writes every notification to w as it is shown.
func WithEcho(w io.Writer) Option {
	return func(c *Center) {
		c.echo = w
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Center) {
		c.logger = logger
	}
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		timers: make(map[uint64]*time.Timer),
		ttl: map[domain.NotificationKind]time.Duration{
			domain.NotificationSuccess: DefaultSuccessTTL,
			domain.NotificationError:   DefaultErrorTTL,
		},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Center) Notify(kind domain.NotificationKind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.nextID++
	n := domain.Notification{
		ID:        c.nextID,
		Kind:      kind,
		Message:   message,
		CreatedAt: c.now(),
	}
	c.active = append(c.active, n)

	ttl, ok := c.ttl[kind]
	if !ok {
		ttl = DefaultSuccessTTL
	}
	c.timers[n.ID] = time.AfterFunc(ttl, func() { c.dismiss(n.ID) })

	c.logger.Debug("notification shown",
		zap.Uint64("id", n.ID),
		zap.String("kind", string(kind)),
		zap.String("message", message),
	)

	if c.echo != nil {
		_, _ = fmt.Fprintf(c.echo, "[%s] %s\n", kind, message)
	}
}

func (c *Center) Active() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]domain.Notification(nil), c.active...)
}

// Close stops pending dismissals and drops everything on screen.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.active = nil
	c.closed = true
}

func (c *Center) dismiss(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.timers, id)
	for i, n := range c.active {
		if n.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			c.logger.Debug("notification dismissed", zap.Uint64("id", id))
			return
		}
	}
}
