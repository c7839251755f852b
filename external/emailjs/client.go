package emailjs

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/thehubfc/prediction-league/internal/domain/notification"
	"github.com/thehubfc/prediction-league/internal/platform/logging"
	"github.com/thehubfc/prediction-league/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL = "https://api.emailjs.com"
	sendPath       = "/api/v1.0/email/send"
	defaultWorkers = 4
)

var errEmailJSTransient = crerr.New("emailjs transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	ServiceID      string
	PublicKey      string
	PrivateKey     string
	TemplateActive string
	TemplateFinal  string
	Timeout        time.Duration
	MaxRetries     int
	Workers        int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client delivers round lifecycle emails through the EmailJS REST API.
// One API call sends one email, so a round fanout runs the recipients
// through a bounded worker pool.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	serviceID      string
	publicKey      string
	privateKey     string
	templateActive string
	templateFinal  string
	maxRetries     int
	workers        int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		serviceID:      strings.TrimSpace(cfg.ServiceID),
		publicKey:      strings.TrimSpace(cfg.PublicKey),
		privateKey:     strings.TrimSpace(cfg.PrivateKey),
		templateActive: strings.TrimSpace(cfg.TemplateActive),
		templateFinal:  strings.TrimSpace(cfg.TemplateFinal),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		workers:        workers,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) NotifyRound(ctx context.Context, kind notification.Kind, info notification.RoundInfo, recipients []notification.Recipient) (notification.Result, error) {
	templateID, err := c.templateFor(kind)
	if err != nil {
		return notification.Result{}, err
	}
	if len(recipients) == 0 {
		return notification.Result{}, nil
	}

	winners := joinWinners(info.WinnerNames)

	pool, err := ants.NewPool(c.workers)
	if err != nil {
		return notification.Result{}, fmt.Errorf("create mail worker pool: %w", err)
	}
	defer pool.Release()

	var sent atomic.Int32
	var failed atomic.Int32

	var workers sync.WaitGroup
	for _, recipient := range recipients {
		recipient := recipient
		workers.Add(1)
		if submitErr := pool.Submit(func() {
			defer workers.Done()

			if err := c.send(ctx, templateID, info, recipient, winners); err != nil {
				failed.Add(1)
				c.logger.WarnContext(ctx, "emailjs send failed",
					"kind", string(kind),
					"user_id", recipient.UserID,
					"error", err,
				)
				return
			}
			sent.Add(1)
		}); submitErr != nil {
			workers.Done()
			failed.Add(1)
		}
	}
	workers.Wait()

	return notification.Result{
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
	}, nil
}

func (c *Client) templateFor(kind notification.Kind) (string, error) {
	switch kind {
	case notification.KindRoundActive:
		return c.templateActive, nil
	case notification.KindRoundFinal:
		return c.templateFinal, nil
	default:
		return "", fmt.Errorf("unknown notification kind %q", kind)
	}
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams map[string]any `json:"template_params"`
}

func (c *Client) send(ctx context.Context, templateID string, info notification.RoundInfo, recipient notification.Recipient, winners string) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return fmt.Errorf("emailjs is temporarily unavailable: %w", err)
		}
	}

	body, err := sonic.Marshal(sendRequest{
		ServiceID:   c.serviceID,
		TemplateID:  templateID,
		UserID:      c.publicKey,
		AccessToken: c.privateKey,
		TemplateParams: map[string]any{
			"to_email":     recipient.Email,
			"to_name":      recipient.Name,
			"round_number": strconv.Itoa(info.RoundNumber),
			"competition":  info.CompetitionName,
			"deadline":     info.Deadline.UTC().Format(time.RFC3339),
			"winners":      winners,
		},
	})
	if err != nil {
		return crerr.Wrap(err, "marshal emailjs payload")
	}

	sendErr := c.executeRequest(ctx, body)
	c.recordCircuitResult(sendErr)
	return sendErr
}

func (c *Client) executeRequest(ctx context.Context, body []byte) error {
	fullURL := c.baseURL + sendPath

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(string(body)))
		if err != nil {
			return fmt.Errorf("build emailjs request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errEmailJSTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errEmailJSTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: emailjs status=%d body=%s", errEmailJSTransient, resp.StatusCode, strings.TrimSpace(string(raw)))
			default:
				return fmt.Errorf("emailjs status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("emailjs request failed")
	}
	return lastErr
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errEmailJSTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func joinWinners(names []string) string {
	if len(names) == 0 {
		return ""
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, name := range names {
		if i > 0 {
			if i == len(names)-1 {
				_, _ = buf.WriteString(" og ")
			} else {
				_, _ = buf.WriteString(", ")
			}
		}
		_, _ = buf.WriteString(name)
	}

	return buf.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
