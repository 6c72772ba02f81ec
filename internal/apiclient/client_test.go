package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(config.APIConfig{
		BaseURL:        baseURL,
		RequestTimeout: 5 * time.Second,
	}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	raw, _ := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.Envelope{Status: status, Message: message, Data: raw})
}

func TestLoginDecodesTokens(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body LoginInput
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		if body.Email != "jane@example.com" {
			t.Errorf("unexpected email %q", body.Email)
		}
		writeEnvelope(w, http.StatusOK, "ok", types.Tokens{AccessToken: "acc", RefreshToken: "ref"})
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	tokens, err := client.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if tokens.AccessToken != "acc" || tokens.RefreshToken != "ref" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
}

func TestLoginExtractsServerMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "Invalid email or password", nil)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "nope"})
	if err == nil {
		t.Fatal("expected login failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pkgerrors.PublicMessage(err, FallbackMessage); got != "Invalid email or password" {
		t.Fatalf("expected server message surfaced, got %q", got)
	}
}

func TestTransportErrorsAreNormalized(t *testing.T) {
	t.Parallel()

	client := testClient(t, "http://127.0.0.1:1")
	_, err := client.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "pw"})
	if err == nil {
		t.Fatal("expected network failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNetwork {
		t.Fatalf("expected network code, got %v", err)
	}
	if msg := pkgerrors.PublicMessage(err, FallbackMessage); strings.Contains(msg, "127.0.0.1") {
		t.Fatalf("raw transport detail leaked: %q", msg)
	}
}

type staticTokens struct{ token string }

func (s staticTokens) AccessToken() string { return s.token }

type countingRefresher struct {
	calls  atomic.Int32
	tokens *staticTokens
}

func (c *countingRefresher) Refresh(ctx context.Context) (*types.Tokens, error) {
	c.calls.Add(1)
	c.tokens.token = "fresh"
	return &types.Tokens{AccessToken: "fresh", RefreshToken: "r2"}, nil
}

func TestAuthedRequestRetriesOnceAfterRefresh(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		auth := r.Header.Get("Authorization")
		if auth != "Bearer fresh" {
			writeEnvelope(w, http.StatusUnauthorized, "token expired", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "ok", types.User{ID: "u1", Name: "Jane"})
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	tokens := &staticTokens{token: "stale"}
	refresher := &countingRefresher{tokens: tokens}
	client.SetAuth(tokens, refresher)

	user, err := client.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if got := refresher.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one refresh, got %d", got)
	}
	if got := requests.Load(); got != 2 {
		t.Fatalf("expected original request plus one retry, got %d", got)
	}
}

func TestLogoutDoesNotRefreshOnUnauthorized(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		writeEnvelope(w, http.StatusUnauthorized, "token revoked", nil)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	tokens := &staticTokens{token: "stale"}
	refresher := &countingRefresher{tokens: tokens}
	client.SetAuth(tokens, refresher)

	if err := client.Logout(context.Background(), "dead-refresh"); err == nil {
		t.Fatal("expected unauthorized error")
	}
	if got := refresher.calls.Load(); got != 0 {
		t.Fatalf("logout must never trigger a refresh, got %d", got)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected a single request, got %d", got)
	}
}

func TestAuthedRequestWithoutTokenFailsFast(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the backend")
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	client.SetAuth(staticTokens{}, nil)

	if _, err := client.GetUser(context.Background(), "u1"); err == nil {
		t.Fatal("expected unauthorized error")
	}
}

func TestListProductsEncodesQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("search") != "tea" || q.Get("page") != "2" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		writeEnvelope(w, http.StatusOK, "ok", types.Page[types.Product]{
			Items: []types.Product{{ID: "p1", Name: "Green Tea"}},
			Total: 1, Page: 2, PerPage: 20, TotalPages: 1,
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	page, err := client.ListProducts(context.Background(), ProductQuery{Search: "tea", Page: 2, PerPage: 20})
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "Green Tea" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestRegisterSendsMultipart(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
		}
		if got := r.FormValue("email"); got != "new@example.com" {
			t.Errorf("unexpected email %q", got)
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			t.Errorf("expected avatar part: %v", err)
		} else {
			defer file.Close()
			if header.Filename != "me.png" {
				t.Errorf("unexpected filename %q", header.Filename)
			}
		}
		writeEnvelope(w, http.StatusCreated, "created", types.Tokens{AccessToken: "a", RefreshToken: "r"})
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	tokens, err := client.Register(context.Background(), RegisterInput{
		Name:           "New User",
		Email:          "new@example.com",
		Password:       "pw123456",
		Role:           "client",
		AvatarFilename: "me.png",
		Avatar:         strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if tokens.AccessToken != "a" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
}
