package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
	"github.com/polkiloo/buxiq/internal/server/http/dto"
	"github.com/polkiloo/buxiq/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/buxiq/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path, route string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte) *httptest.ResponseRecorder {
	t.Helper()
	if route == "" {
		route = path
	}
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func withAccount(account string) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.AccountContextKey, account)
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestCurrentAccount(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentAccount(c); got != "" {
		t.Fatalf("expected empty account when not set, got %q", got)
	}

	c.Set(middleware.AccountContextKey, "100200")
	if got := CurrentAccount(c); got != "100200" {
		t.Fatalf("expected 100200, got %q", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domainErrors.ErrInvalidCaptcha, http.StatusBadRequest, "invalid_captcha"},
		{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{domainErrors.ErrAccountBlocked, http.StatusForbidden, "account_blocked"},
		{domainErrors.ErrNetworkUnavailable, http.StatusServiceUnavailable, "network_unavailable"},
		{domainErrors.ErrBelowMinimum, http.StatusUnprocessableEntity, "below_minimum"},
		{domainErrors.ErrCashoutInProgress, http.StatusConflict, "cashout_in_progress"},
		{errors.Join(errors.New("timeout"), domainErrors.ErrPostbackFailed), http.StatusBadGateway, "postback_failed"},
		{domainErrors.ErrUnknownOfferwall, http.StatusNotFound, "unknown_offerwall"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range tests {
		got := classify(tc.err)
		if got.status != tc.status || got.code != tc.code {
			t.Fatalf("classify(%v) = %d %s, want %d %s", tc.err, got.status, got.code, tc.status, tc.code)
		}
		if got.message == "" {
			t.Fatalf("expected message for %v", tc.err)
		}
	}
}

func TestSessionHandlerCaptcha(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{CaptchaCode: "48213"}
	h := NewSessionHandler(facade)

	resp := performRequest(t, http.MethodGet, "/captcha", "", h.Captcha, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.CaptchaResponse](t, resp); got.Captcha != "48213" {
		t.Fatalf("unexpected captcha %q", got.Captcha)
	}

	resp = performRequest(t, http.MethodPost, "/captcha", "", h.RotateCaptcha, nil, nil)
	if got := decode[dto.CaptchaResponse](t, resp); got.Captcha != "54321" || facade.Rotations != 1 {
		t.Fatalf("expected rotated captcha, got %q rotations=%d", got.Captcha, facade.Rotations)
	}
}

func TestSessionHandlerLogin(t *testing.T) {
	var gotAccount, gotClient, gotCaptcha string
	facade := &testhelpers.DashboardFacadeStub{LoginFn: func(ctx context.Context, account, clientID, captcha string) (string, model.UserRecord, error) {
		gotAccount, gotClient, gotCaptcha = account, clientID, captcha
		return "session-token", model.UserRecord{
			Account:            account,
			Username:           "neo",
			Status:             "active",
			Level:              3,
			Balance:            decimal.NewFromInt(1050),
			LastOfferwallClick: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		}, nil
	}}
	body, _ := json.Marshal(dto.LoginRequest{AccountNumber: "100200", ClientID: "C-1", Captcha: "12345"})

	resp := performRequest(t, http.MethodPost, "/login", "", NewSessionHandler(facade).Login, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if gotAccount != "100200" || gotClient != "C-1" || gotCaptcha != "12345" {
		t.Fatalf("unexpected credentials passed to facade: %q %q %q", gotAccount, gotClient, gotCaptcha)
	}
	if header := resp.Header().Get("Authorization"); header != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", header)
	}

	result := resp.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	foundCookie := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "buxiq_token" && cookie.Value == "session-token" {
			foundCookie = true
		}
	}
	if !foundCookie {
		t.Fatal("expected auth cookie named buxiq_token")
	}

	got := decode[dto.LoginResponse](t, resp)
	if got.Token != "session-token" || got.User.AccountNumber != "100200" || got.User.Level != 3 {
		t.Fatalf("unexpected login response %+v", got)
	}
	if got.User.Balance != "1050" || got.User.USDEquivalent != "5.00" {
		t.Fatalf("unexpected balance view %+v", got.User)
	}
	if got.User.LastOfferwallClick == nil {
		t.Fatal("expected last offerwall click to be exposed")
	}
}

func TestSessionHandlerLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   []byte
		status int
		code   string
	}{
		{name: "bad json", body: []byte("{"), status: http.StatusBadRequest, code: "bad_request"},
		{name: "captcha", err: domainErrors.ErrInvalidCaptcha, status: http.StatusBadRequest, code: "invalid_captcha"},
		{name: "credentials", err: domainErrors.ErrInvalidCredentials, status: http.StatusUnauthorized, code: "invalid_credentials"},
		{name: "blocked", err: domainErrors.ErrAccountBlocked, status: http.StatusForbidden, code: "account_blocked"},
		{name: "network", err: domainErrors.ErrNetworkUnavailable, status: http.StatusServiceUnavailable, code: "network_unavailable"},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError, code: "internal"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			facade := &testhelpers.DashboardFacadeStub{LoginFn: func(context.Context, string, string, string) (string, model.UserRecord, error) {
				return "", model.UserRecord{}, tc.err
			}}
			body := tc.body
			if body == nil {
				body, _ = json.Marshal(dto.LoginRequest{AccountNumber: "1", ClientID: "c", Captcha: "0"})
			}
			resp := performRequest(t, http.MethodPost, "/login", "", NewSessionHandler(facade).Login, nil, body)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			if got := decode[dto.ErrorResponse](t, resp); got.Error != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, got.Error)
			}
			if resp.Header().Get("Authorization") != "" {
				t.Fatal("did not expect auth header on failure")
			}
		})
	}
}

func TestSessionHandlerLogout(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{User: &model.UserRecord{Account: "1"}}
	resp := performRequest(t, http.MethodPost, "/logout", "", NewSessionHandler(facade).Logout, withAccount("1"), nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if facade.LoggedOut != 1 {
		t.Fatalf("expected logout to be called once, got %d", facade.LoggedOut)
	}
	result := resp.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cleared := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "buxiq_token" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected auth cookie to be cleared")
	}
}

func TestSessionHandlerCurrent(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{User: &model.UserRecord{Account: "1", Balance: decimal.NewFromInt(40)}}
	h := NewSessionHandler(facade)

	resp := performRequest(t, http.MethodGet, "/session", "", h.Current, withAccount("1"), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	got := decode[dto.UserResponse](t, resp)
	if got.Balance != "40" || got.USDEquivalent != "0.00" {
		t.Fatalf("expected clamped usd equivalent, got %+v", got)
	}

	resp = performRequest(t, http.MethodGet, "/session", "", h.Current, withAccount("2"), nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for other account, got %d", resp.Code)
	}
}

func TestSessionHandlerRefresh(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{RefreshFn: func(context.Context) (model.UserRecord, error) {
		return model.UserRecord{Account: "1", Balance: decimal.RequireFromString("450.5")}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/refresh", "", NewSessionHandler(facade).Refresh, withAccount("1"), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.UserResponse](t, resp); got.Balance != "450.5" {
		t.Fatalf("unexpected balance %q", got.Balance)
	}

	facade.RefreshFn = func(context.Context) (model.UserRecord, error) {
		return model.UserRecord{}, domainErrors.ErrNotAuthenticated
	}
	resp = performRequest(t, http.MethodPost, "/refresh", "", NewSessionHandler(facade).Refresh, nil, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestCashoutHandlerRequest(t *testing.T) {
	var got model.CashoutRequest
	facade := &testhelpers.DashboardFacadeStub{CashoutFn: func(ctx context.Context, req model.CashoutRequest) (*model.CashoutReceipt, error) {
		got = req
		return &model.CashoutReceipt{
			ID:         "abc",
			Points:     450,
			USD:        decimal.NewFromInt(2),
			NewBalance: decimal.NewFromInt(550),
			RewardType: model.RewardLTC,
			Confirmed:  true,
		}, nil
	}}

	body := []byte(`{"amount":450,"rewardType":"ltc","walletAddress":"LTC123"}`)
	resp := performRequest(t, http.MethodPost, "/cashout", "", NewCashoutHandler(facade).Request, withAccount("1"), body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got.Amount != "450" || got.RewardType != "ltc" || got.WalletAddress != "LTC123" {
		t.Fatalf("unexpected request passed to facade: %+v", got)
	}
	out := decode[dto.CashoutResponse](t, resp)
	if out.ID != "abc" || out.USD != "2.00" || out.NewBalance != "550" || !out.Confirmed || out.RewardType != "ltc" {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestCashoutHandlerRequestFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		err    error
		status int
		code   string
	}{
		{name: "bad json", body: []byte(`{"amount":`), status: http.StatusBadRequest, code: "bad_request"},
		{name: "invalid amount", body: []byte(`{"amount":"abc"}`), err: domainErrors.ErrInvalidAmount, status: http.StatusUnprocessableEntity, code: "invalid_amount"},
		{name: "below minimum", body: []byte(`{"amount":100}`), err: domainErrors.ErrBelowMinimum, status: http.StatusUnprocessableEntity, code: "below_minimum"},
		{name: "insufficient", body: []byte(`{"amount":9000}`), err: domainErrors.ErrInsufficientBalance, status: http.StatusUnprocessableEntity, code: "insufficient_balance"},
		{name: "missing email", body: []byte(`{"amount":300,"rewardType":"tesco"}`), err: domainErrors.ErrMissingEmail, status: http.StatusUnprocessableEntity, code: "missing_email"},
		{name: "in progress", body: []byte(`{"amount":300}`), err: domainErrors.ErrCashoutInProgress, status: http.StatusConflict, code: "cashout_in_progress"},
		{name: "postback", body: []byte(`{"amount":300}`), err: domainErrors.ErrPostbackFailed, status: http.StatusBadGateway, code: "postback_failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			facade := &testhelpers.DashboardFacadeStub{CashoutFn: func(context.Context, model.CashoutRequest) (*model.CashoutReceipt, error) {
				return nil, tc.err
			}}
			resp := performRequest(t, http.MethodPost, "/cashout", "", NewCashoutHandler(facade).Request, withAccount("1"), tc.body)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			if got := decode[dto.ErrorResponse](t, resp); got.Error != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, got.Error)
			}
		})
	}
}

func TestCashoutHandlerBelowMinimumUsesConfiguredThreshold(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{
		MinPoints: 500,
		CashoutFn: func(context.Context, model.CashoutRequest) (*model.CashoutReceipt, error) {
			return nil, domainErrors.ErrBelowMinimum
		},
	}
	resp := performRequest(t, http.MethodPost, "/cashout", "", NewCashoutHandler(facade).Request, withAccount("1"), []byte(`{"amount":300}`))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	got := decode[dto.ErrorResponse](t, resp)
	if got.Error != "below_minimum" || got.Message != "Minimum cashout is 500 points." {
		t.Fatalf("unexpected error body %+v", got)
	}
}

func TestCashoutHandlerHistory(t *testing.T) {
	requested := time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)
	items := []model.Cashout{
		{ID: "2", Points: 450, USD: decimal.NewFromInt(2), RewardType: model.RewardLTC, WalletAddress: "LTC1", RequestedAt: requested},
		{ID: "1", Points: 300, USD: decimal.RequireFromString("1.25"), RewardType: model.RewardTesco, Email: "a@b.c", RequestedAt: requested.Add(-time.Hour)},
	}
	summary := model.CashoutSummary{Count: 2, Points: 750, USD: decimal.RequireFromString("3.25")}
	facade := &testhelpers.DashboardFacadeStub{CashoutsFn: func(context.Context) ([]model.Cashout, model.CashoutSummary, error) {
		return items, summary, nil
	}}

	resp := performRequest(t, http.MethodGet, "/cashouts", "", NewCashoutHandler(facade).History, withAccount("1"), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	got := decode[dto.CashoutHistoryResponse](t, resp)
	if got.Count != 2 || got.Points != 750 || got.USD != "3.25" || len(got.Items) != 2 {
		t.Fatalf("unexpected history %+v", got)
	}
	if got.Items[0].ID != "2" || got.Items[0].WalletAddress != "LTC1" || got.Items[1].USD != "1.25" {
		t.Fatalf("unexpected items %+v", got.Items)
	}

	facade.CashoutsFn = func(context.Context) ([]model.Cashout, model.CashoutSummary, error) {
		return nil, model.CashoutSummary{}, errors.New("db down")
	}
	resp = performRequest(t, http.MethodGet, "/cashouts", "", NewCashoutHandler(facade).History, withAccount("1"), nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestCashoutHandlerHistoryEmpty(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/cashouts", "", NewCashoutHandler(&testhelpers.DashboardFacadeStub{}).History, withAccount("1"), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); !bytes.Contains([]byte(body), []byte(`"items":[]`)) {
		t.Fatalf("expected empty items array, got %s", body)
	}
}

func TestCashoutHandlerRewards(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/rewards", "", NewCashoutHandler(&testhelpers.DashboardFacadeStub{}).Rewards, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	got := decode[dto.RewardsResponse](t, resp)
	if got.MinPoints != model.MinCashoutPoints || got.PointsPerDollar != model.PointsPerDollar || got.FeePoints != model.CashoutFeePoints {
		t.Fatalf("unexpected conversion rules %+v", got)
	}
	if len(got.Rewards) != len(model.Rewards()) {
		t.Fatalf("expected %d rewards, got %d", len(model.Rewards()), len(got.Rewards))
	}
	for _, r := range got.Rewards {
		if r.Type == "ltc" && r.Requires != "walletAddress" {
			t.Fatalf("expected ltc to require wallet address, got %q", r.Requires)
		}
	}
}

func TestOfferwallHandlerList(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{Walls: []model.Offerwall{
		{ID: "wall-a", Name: "Wall A", Kind: model.LaunchURL, Tracked: true},
		{ID: "wall-b", Name: "Wall B", Kind: model.LaunchSideEffect},
	}}
	resp := performRequest(t, http.MethodGet, "/offerwalls", "", NewOfferwallHandler(facade).List, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	got := decode[[]dto.OfferwallResponse](t, resp)
	if len(got) != 2 || !got[0].Tracked || got[1].Kind != "sideEffect" {
		t.Fatalf("unexpected offerwalls %+v", got)
	}
}

func TestOfferwallHandlerOpen(t *testing.T) {
	var gotID string
	facade := &testhelpers.DashboardFacadeStub{OpenOfferwallFn: func(ctx context.Context, id string) (model.OfferwallLaunch, error) {
		gotID = id
		if id == "missing" {
			return model.OfferwallLaunch{}, domainErrors.ErrUnknownOfferwall
		}
		return model.OfferwallLaunch{Kind: model.LaunchURL, URL: "https://wall.test/?uid=neo"}, nil
	}}
	h := NewOfferwallHandler(facade)

	resp := performRequest(t, http.MethodPost, "/offerwalls/wall-a/open", "/offerwalls/:id/open", h.Open, withAccount("1"), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotID != "wall-a" {
		t.Fatalf("expected id from path, got %q", gotID)
	}
	if got := decode[dto.LaunchResponse](t, resp); got.Kind != "url" || got.URL != "https://wall.test/?uid=neo" {
		t.Fatalf("unexpected launch %+v", got)
	}

	resp = performRequest(t, http.MethodPost, "/offerwalls/missing/open", "/offerwalls/:id/open", h.Open, withAccount("1"), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestActivityHandlerList(t *testing.T) {
	var gotLimit int
	facade := &testhelpers.DashboardFacadeStub{ActivityFn: func(ctx context.Context, limit int) []model.ActivityEntry {
		gotLimit = limit
		return []model.ActivityEntry{{Username: "trinity", Amount: decimal.RequireFromString("5.5")}}
	}}
	h := NewActivityHandler(facade)

	tests := []struct {
		path   string
		status int
		limit  int
	}{
		{path: "/activity", status: http.StatusOK, limit: defaultActivityLimit},
		{path: "/activity?limit=5", status: http.StatusOK, limit: 5},
		{path: "/activity?limit=1000", status: http.StatusOK, limit: maxActivityLimit},
		{path: "/activity?limit=zero", status: http.StatusBadRequest},
		{path: "/activity?limit=-1", status: http.StatusBadRequest},
	}
	for _, tc := range tests {
		gotLimit = 0
		resp := performRequest(t, http.MethodGet, tc.path, "/activity", h.List, nil, nil)
		if resp.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, resp.Code)
		}
		if tc.status != http.StatusOK {
			continue
		}
		if gotLimit != tc.limit {
			t.Fatalf("%s: expected limit %d, got %d", tc.path, tc.limit, gotLimit)
		}
		got := decode[[]dto.ActivityEntry](t, resp)
		if len(got) != 1 || got[0].Username != "trinity" || got[0].Amount != "5.50" {
			t.Fatalf("unexpected activity %+v", got)
		}
	}
}

func TestHealth(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{}
	resp := performRequest(t, http.MethodGet, "/healthz", "", Health(facade), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	facade.HealthErr = errors.New("db down")
	resp = performRequest(t, http.MethodGet, "/healthz", "", Health(facade), nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
