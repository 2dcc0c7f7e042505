package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/clinica/prontuario-client/internal/config"
	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/pkg/apperror"
	"github.com/clinica/prontuario-client/pkg/logger"
	"github.com/clinica/prontuario-client/pkg/metrics"
)

// Client performs the authenticated HTTP calls against the clinic API.
// It is stateless: the session token travels in as an argument, every
// transport or server failure comes back as an apperror value, never a
// panic or a raw body.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *Breaker
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewClient(cfg config.APIConfig, log *logger.Logger, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	if log == nil {
		log = logger.NewLogger(nil)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: NewBreaker(5, 30*time.Second),
		log:     log,
		metrics: m,
	}
}

// errMsgTransport is the generic user-facing message for network and
// parse failures. Kept generic so it can never be confused with a
// successful-empty response.
const errMsgTransport = "Não foi possível comunicar com o servidor."

// call performs one JSON round trip. The response body is decoded at
// this boundary into the tagged variant: a server error list yields an
// apperror of serverKind carrying the first message, anything else is
// unmarshalled into out. out may be nil for calls whose payload is
// irrelevant.
func (c *Client) call(ctx context.Context, method, path, token string, body, out interface{}, serverKind apperror.Kind) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperror.NewTransport(errMsgTransport, err)
	}

	requestID := uuid.New().String()
	start := time.Now()

	var settled error
	err := c.breaker.Execute(func() error {
		settled = c.roundTrip(ctx, method, path, token, body, out, serverKind)
		// Server-reported errors are valid answers; only transport
		// failures should trip the breaker.
		if apperror.KindOf(settled) == apperror.KindTransport {
			return settled
		}
		return nil
	})
	if err == ErrBreakerOpen {
		settled = apperror.NewTransport(errMsgTransport, err)
	}

	status := "ok"
	if settled != nil {
		status = apperror.KindOf(settled).String()
	}
	if c.metrics != nil {
		endpoint := metricEndpoint(path)
		c.metrics.RemoteCalls.WithLabelValues(endpoint, status).Inc()
		c.metrics.RemoteLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}

	c.log.Zerolog().Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Str("status", status).
		Dur("latency", time.Since(start)).
		Msg("remote call")

	return settled
}

// metricEndpoint collapses per-clinician paths into one label value so
// the endpoint label stays low-cardinality.
func metricEndpoint(path string) string {
	if strings.HasPrefix(path, pathPacientesPorMedico) {
		return pathPacientesPorMedico + ":id"
	}
	return path
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, body, out interface{}, serverKind apperror.Kind) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperror.NewTransport(errMsgTransport, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperror.NewTransport(errMsgTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.NewTransport(errMsgTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.NewTransport(errMsgTransport, err)
	}

	// The API reports failures as {"errors": [...]} with the
	// authoritative message first, on any status code.
	var envelope model.APIEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Failed() {
		return &apperror.AppError{Kind: serverKind, Message: envelope.FirstError()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperror.NewTransport(errMsgTransport,
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return apperror.NewTransport(errMsgTransport, err)
		}
	}
	return nil
}
