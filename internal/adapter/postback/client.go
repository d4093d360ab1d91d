package postback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

const defaultTimeout = 12 * time.Second

// Client submits actions to the remote script endpoint.
type Client interface {
	Submit(ctx context.Context, req model.PostbackRequest) (*model.PostbackResult, error)
}

// HTTPClient implements Client over HTTP. POST with a JSON body is the
// canonical form; the query string form is kept for older deployments.
type HTTPClient struct {
	endpoint   *url.URL
	method     string
	httpClient *http.Client
	logger     *slog.Logger
}

// payload mirrors the body understood by the script. Balance uses json.Number
// so it is sent as a JSON number and encodes as a plain query value.
type payload struct {
	Action        string      `json:"action" url:"action"`
	Account       string      `json:"account" url:"account"`
	Amount        int64       `json:"amount,omitempty" url:"amount,omitempty"`
	Balance       json.Number `json:"balance,omitempty" url:"balance,omitempty"`
	RewardType    string      `json:"rewardType,omitempty" url:"rewardType,omitempty"`
	Email         string      `json:"email,omitempty" url:"email,omitempty"`
	WalletAddress string      `json:"walletAddress,omitempty" url:"walletAddress,omitempty"`
	RequestID     string      `json:"requestId,omitempty" url:"requestId,omitempty"`
	Timestamp     string      `json:"timestamp" url:"timestamp"`
}

type response struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

// NewHTTPClient creates postback client. Method is POST or GET.
func NewHTTPClient(rawURL, method string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse postback url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("postback url must be absolute")
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case "":
		method = http.MethodPost
	case http.MethodPost, http.MethodGet:
	default:
		return nil, fmt.Errorf("unsupported postback method %q", method)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		endpoint: parsed,
		method:   method,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Submit sends the action and decodes the script answer. A decoded answer with
// success=false is returned as-is; transport and protocol failures are errors.
func (c *HTTPClient) Submit(ctx context.Context, req model.PostbackRequest) (*model.PostbackResult, error) {
	body := newPayload(req)

	if c.method == http.MethodGet {
		return c.submitQuery(ctx, body)
	}

	result, status, err := c.submitJSON(ctx, body)
	if status == http.StatusMethodNotAllowed {
		c.logger.Warn("postback endpoint rejected POST, falling back to query string", slog.String("action", req.Action))
		return c.submitQuery(ctx, body)
	}
	return result, err
}

func newPayload(req model.PostbackRequest) payload {
	p := payload{
		Action:        req.Action,
		Account:       req.Account,
		Amount:        req.Amount,
		RewardType:    string(req.RewardType),
		Email:         req.Email,
		WalletAddress: req.WalletAddress,
		RequestID:     req.RequestID,
	}
	if req.Balance != nil {
		p.Balance = json.Number(req.Balance.String())
	}
	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	p.Timestamp = ts.UTC().Format(time.RFC3339)
	return p
}

func (c *HTTPClient) submitJSON(ctx context.Context, body payload) (*model.PostbackResult, int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, body.Action)
}

func (c *HTTPClient) submitQuery(ctx context.Context, body payload) (*model.PostbackResult, error) {
	values, err := query.Values(body)
	if err != nil {
		return nil, fmt.Errorf("encode postback params: %w", err)
	}
	endpoint := *c.endpoint
	existing := endpoint.Query()
	for key, vals := range values {
		for _, v := range vals {
			existing.Add(key, v)
		}
	}
	endpoint.RawQuery = existing.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	result, _, err := c.do(req, body.Action)
	return result, err
}

func (c *HTTPClient) do(req *http.Request, action string) (*model.PostbackResult, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("postback request failed",
			slog.String("action", action),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, resp.StatusCode, fmt.Errorf("postback error: %s", resp.Status)
	}

	var data response
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode postback response: %w", err)
	}
	return &model.PostbackResult{
		Success:          data.Success,
		Message:          data.Message,
		ConfirmedBalance: data.Balance,
	}, resp.StatusCode, nil
}
