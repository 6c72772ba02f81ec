// Package session owns the authenticated-user state: token persistence, the
// one-shot initialization gate route guards wait on, and the refresh-token
// lifecycle. The snapshot is only ever replaced wholesale, never mutated in
// place.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/angelmondragon/packfinderz-storefront/internal/apiclient"
	"github.com/angelmondragon/packfinderz-storefront/internal/forms"
	"github.com/angelmondragon/packfinderz-storefront/pkg/auth"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
	"github.com/angelmondragon/packfinderz-storefront/pkg/storage"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// Backend is the slice of the API client the store depends on.
type Backend interface {
	Login(ctx context.Context, input apiclient.LoginInput) (*types.Tokens, error)
	Register(ctx context.Context, input apiclient.RegisterInput) (*types.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshTokens(ctx context.Context, refreshToken string) (*types.Tokens, error)
	GetUser(ctx context.Context, id string) (*types.User, error)
}

// Listener receives every published snapshot in publish order. Listeners run
// inside the store's critical section and must not call back into the store.
type Listener func(types.UserPayload)

// refreshFlight is the shared result for callers coalesced onto one request.
type refreshFlight struct {
	done   chan struct{}
	tokens *types.Tokens
	err    error
}

// Store is the single source of truth for "who is logged in".
type Store struct {
	api     Backend
	blob    storage.Blob
	logg    *logger.Logger
	metrics *metrics.StoreMetrics

	signInPath string
	navigate   func(path string)

	mu          sync.Mutex
	snapshot    types.UserPayload
	tokens      types.Tokens
	inflight    *refreshFlight
	subscribers map[int]Listener
	nextSub     int

	initOnce sync.Once
	initDone chan struct{}
}

// Params wires the store's collaborators.
type Params struct {
	Backend    Backend
	Blob       storage.Blob
	Logger     *logger.Logger
	Metrics    *metrics.StoreMetrics
	SignInPath string
	// Navigate is invoked after logout with the sign-in path. Optional.
	Navigate func(path string)
}

// New builds the store in the uninitialized state. Call Init (typically in a
// goroutine) to validate any persisted token and open the gate.
func New(params Params) (*Store, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if params.Blob == nil {
		return nil, fmt.Errorf("blob storage is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	signInPath := params.SignInPath
	if signInPath == "" {
		signInPath = "/auth/sign-in"
	}
	return &Store{
		api:         params.Backend,
		blob:        params.Blob,
		logg:        params.Logger,
		metrics:     params.Metrics,
		signInPath:  signInPath,
		navigate:    params.Navigate,
		snapshot:    types.AnonymousUser(),
		subscribers: map[int]Listener{},
		initDone:    make(chan struct{}),
	}, nil
}

// InitDone is closed exactly once, after the startup token check resolves.
// Late waiters see an already-closed channel and never block.
func (s *Store) InitDone() <-chan struct{} {
	return s.initDone
}

func (s *Store) completeInit() {
	s.initOnce.Do(func() {
		close(s.initDone)
	})
}

// Init validates any persisted token against the backend and publishes the
// resulting snapshot. It always opens the gate, success or failure.
func (s *Store) Init(ctx context.Context) {
	defer s.completeInit()

	tokens := s.loadTokens(ctx)
	if tokens == nil || tokens.AccessToken == "" {
		return
	}

	claims, err := auth.DecodeClaims(tokens.AccessToken)
	if err != nil {
		s.logg.Warn(ctx, "session.init.unparsable_token")
		s.clearTokens(ctx)
		return
	}

	s.mu.Lock()
	s.tokens = *tokens
	s.mu.Unlock()

	if _, err := s.api.GetUser(ctx, claims.UserID); err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && (typed.Code() == pkgerrors.CodeUnauthorized || typed.Code() == pkgerrors.CodeForbidden) {
			// Token rejected outright; a transient network failure keeps the
			// persisted pair for the next boot.
			s.clearTokens(ctx)
			s.mu.Lock()
			s.tokens = types.Tokens{}
			s.mu.Unlock()
		}
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "session.init.validation_failed")
		return
	}

	s.publishAuthenticated(*tokens, claims)
	s.metrics.IncSessionEvent("init_authenticated")
}

// Login exchanges credentials for tokens and publishes the authenticated
// snapshot. Failures leave state untouched.
func (s *Store) Login(ctx context.Context, form forms.Login) (*types.UserPayload, error) {
	if err := forms.Validate(form); err != nil {
		return nil, err
	}

	tokens, err := s.api.Login(ctx, apiclient.LoginInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return nil, err
	}

	claims, err := auth.DecodeClaims(tokens.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTokenInvalid, err, "session token could not be decoded")
	}

	s.persistTokens(ctx, tokens)
	snap := s.publishAuthenticated(*tokens, claims)
	s.metrics.IncSessionEvent("login")
	return &snap, nil
}

// Register creates an account; the contract mirrors Login.
func (s *Store) Register(ctx context.Context, form forms.Register) (*types.UserPayload, error) {
	if err := forms.Validate(form); err != nil {
		return nil, err
	}

	tokens, err := s.api.Register(ctx, apiclient.RegisterInput{
		Name:           form.Name,
		Email:          form.Email,
		Password:       form.Password,
		Role:           form.Role,
		AvatarFilename: form.AvatarFilename,
		Avatar:         form.Avatar,
	})
	if err != nil {
		return nil, err
	}

	claims, err := auth.DecodeClaims(tokens.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTokenInvalid, err, "session token could not be decoded")
	}

	s.persistTokens(ctx, tokens)
	snap := s.publishAuthenticated(*tokens, claims)
	s.metrics.IncSessionEvent("register")
	return &snap, nil
}

// Logout notifies the backend best-effort, then unconditionally wipes local
// tokens, resets the snapshot to the sentinel, and navigates to sign-in.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	refreshToken := s.tokens.RefreshToken
	s.mu.Unlock()

	if refreshToken != "" {
		if err := s.api.Logout(ctx, refreshToken); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "session.logout.server_call_failed")
		}
	}

	s.clearTokens(ctx)

	s.mu.Lock()
	s.tokens = types.Tokens{}
	s.snapshot = types.AnonymousUser()
	s.deliverLocked(s.snapshot)
	s.mu.Unlock()

	s.metrics.IncSessionEvent("logout")
	if s.navigate != nil {
		s.navigate(s.signInPath)
	}
}

// Refresh exchanges the refresh token for a new pair. Concurrent callers are
// coalesced onto a single in-flight request and share its result. Absent a
// refresh token it resolves to a no-op. Failure triggers Logout.
func (s *Store) Refresh(ctx context.Context) (*types.Tokens, error) {
	s.mu.Lock()
	if s.tokens.RefreshToken == "" && s.inflight == nil {
		s.mu.Unlock()
		return nil, nil
	}
	if s.inflight != nil {
		flight := s.inflight
		s.mu.Unlock()
		s.metrics.IncRefreshCoalesced()
		select {
		case <-flight.done:
			return flight.tokens, flight.err
		case <-ctx.Done():
			return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, ctx.Err(), "refresh interrupted")
		}
	}
	flight := &refreshFlight{done: make(chan struct{})}
	s.inflight = flight
	refreshToken := s.tokens.RefreshToken
	s.mu.Unlock()

	tokens, err := s.api.RefreshTokens(ctx, refreshToken)
	var claims *auth.AccessTokenClaims
	if err == nil {
		claims, err = auth.DecodeClaims(tokens.AccessToken)
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeTokenInvalid, err, "session token could not be decoded")
			tokens = nil
		}
	}
	if err != nil {
		tokens = nil
	}

	if tokens != nil {
		s.persistTokens(ctx, tokens)
		s.publishAuthenticated(*tokens, claims)
		s.metrics.IncSessionEvent("refresh")
	}

	flight.tokens = tokens
	flight.err = err
	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()
	close(flight.done)

	if err != nil {
		s.Logout(ctx)
	}
	return tokens, err
}

// Snapshot returns the current immutable session snapshot.
func (s *Store) Snapshot() types.UserPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// IsAuthenticated reports the current snapshot's authentication flag.
func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated
}

// HasRole reports whether the session is authenticated as any of the roles.
func (s *Store) HasRole(roles ...enums.UserRole) bool {
	snap := s.Snapshot()
	if !snap.IsAuthenticated {
		return false
	}
	for _, role := range roles {
		if snap.Role == role {
			return true
		}
	}
	return false
}

// AccessToken implements apiclient.TokenProvider.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.AccessToken
}

// Subscribe registers a listener for future snapshots and returns its cancel
// function. The current snapshot is delivered immediately.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = listener
	listener(s.snapshot)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) publishAuthenticated(tokens types.Tokens, claims *auth.AccessTokenClaims) types.UserPayload {
	snap := types.UserPayload{
		User:            claims.User(),
		IsAuthenticated: true,
	}
	s.mu.Lock()
	s.tokens = tokens
	s.snapshot = snap
	s.deliverLocked(snap)
	s.mu.Unlock()
	return snap
}

func (s *Store) deliverLocked(snap types.UserPayload) {
	for _, listener := range s.subscribers {
		listener(snap)
	}
}

// loadTokens reads the persisted pair; all failures degrade to "no session".
func (s *Store) loadTokens(ctx context.Context) *types.Tokens {
	data, err := s.blob.Load(ctx, storage.KeyTokens)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "session.tokens.load_failed")
		}
		return nil
	}
	var tokens types.Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		s.logg.Warn(ctx, "session.tokens.corrupt")
		s.clearTokens(ctx)
		return nil
	}
	return &tokens
}

func (s *Store) persistTokens(ctx context.Context, tokens *types.Tokens) {
	data, err := json.Marshal(tokens)
	if err != nil {
		s.logg.Error(ctx, "session.tokens.encode_failed", err)
		return
	}
	if err := s.blob.Store(ctx, storage.KeyTokens, data); err != nil {
		s.logg.Error(ctx, "session.tokens.persist_failed", err)
	}
}

func (s *Store) clearTokens(ctx context.Context) {
	if err := s.blob.Delete(ctx, storage.KeyTokens); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "session.tokens.clear_failed")
	}
}
