// Package notify pushes match milestones to an external webhook. Delivery is
// best effort: the caller's operation never fails because the hook is down.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/vigontina/matchtrack/internal/platform/logging"
	"github.com/vigontina/matchtrack/internal/platform/resilience"
)

const (
	EventGoal           = "goal"
	EventPeriodFinished = "period-finished"
	EventPeriodElapsed  = "period-elapsed"
	EventMatchSaved     = "match-saved"
)

// Message is the webhook payload envelope.
type Message struct {
	Type    string    `json:"type"`
	MatchID string    `json:"matchId"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

type WebhookConfig struct {
	URL              string
	Timeout          time.Duration
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// WebhookNotifier posts messages with a circuit breaker in front, so a dead
// endpoint degrades to cheap rejections instead of stacking timeouts.
type WebhookNotifier struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewWebhookNotifier(cfg WebhookConfig, logger *logging.Logger) (*WebhookNotifier, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, crerr.New("webhook url is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, crerr.Newf("webhook url %q must be http or https", url)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WebhookNotifier{
		client: &fasthttp.Client{
			MaxIdleConnDuration: 30 * time.Second,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		url:     url,
		timeout: timeout,
		breaker: resilience.NewCircuitBreaker(cfg.FailureThreshold, cfg.OpenTimeout, cfg.HalfOpenMaxReq),
		logger:  logger,
	}, nil
}

// Publish delivers one message. Circuit rejections and transport failures are
// logged and returned; callers decide whether to care.
func (n *WebhookNotifier) Publish(ctx context.Context, msg Message) error {
	err := n.breaker.Do(func() error {
		return n.post(msg)
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			n.logger.WarnContext(ctx, "webhook circuit breaker rejected message",
				"type", msg.Type, "state", n.breaker.State())
			return fmt.Errorf("webhook is temporarily unavailable: %w", err)
		}
		n.logger.WarnContext(ctx, "webhook delivery failed", "type", msg.Type, "error", err)
		return err
	}
	return nil
}

func (n *WebhookNotifier) post(msg Message) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	body, err := sonic.Marshal(msg)
	if err != nil {
		return crerr.Wrap(err, "marshal webhook message")
	}
	if _, err := buf.Write(body); err != nil {
		return crerr.Wrap(err, "buffer webhook message")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(n.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBodyRaw(buf.B)

	if err := n.client.DoTimeout(req, resp, n.timeout); err != nil {
		return crerr.Wrap(err, "post webhook")
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return crerr.Newf("webhook returned status %d", status)
	}
	return nil
}

// NopNotifier drops every message. Used when the webhook is disabled.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, Message) error { return nil }
