// Package pairing implements the handshake that gives anyctl an API key.
//
// The flow is linear:
//  1. Make sure the Anytype app is installed and running, launching it in
//     the background and polling until it is up if needed.
//  2. Request a challenge; the app shows a 4-digit code.
//  3. The user types the code; it is exchanged for a long-lived API key,
//     which is persisted in the KV store.
//
// A stored key is checked with a cheap live request. Version skew between
// client and app only produces an advisory notice; connection failures
// leave the key in place.
package pairing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/appctl"
	"github.com/nextlevelbuilder/anyctl/internal/kv"
	"github.com/nextlevelbuilder/anyctl/internal/notify"
)

// State is the position in the pairing flow.
type State int

const (
	Unknown State = iota
	Unauthenticated
	ChallengeStarted
	Paired
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case ChallengeStarted:
		return "challenge-started"
	case Paired:
		return "paired"
	}
	return "unknown"
}

var (
	ErrNotInstalled = errors.New("Anytype not installed")
	ErrNotStarted   = errors.New("Pairing not started.")
)

var codeRe = regexp.MustCompile(`^[0-9]{4}$`)

// ValidateCode checks the code the user typed.
func ValidateCode(code string) error {
	if code == "" {
		return &anytype.ValidationError{Field: "code", Message: "Code is required"}
	}
	if !codeRe.MatchString(code) {
		return &anytype.ValidationError{Field: "code", Message: "Code must be exactly 4 digits"}
	}
	return nil
}

// API is the part of the Anytype client the flow needs.
type API interface {
	ListSpaces(ctx context.Context, p anytype.Page) (*anytype.List[anytype.Space], http.Header, error)
	CreateChallenge(ctx context.Context, appName string) (string, error)
	CreateAPIKey(ctx context.Context, challengeID, code string) (string, error)
}

// Config holds the fixed parameters of the flow.
type Config struct {
	AppName       string
	ClientVersion string
	// ConfiguredKey is the API key from the config file, if any. When set
	// a stored key is not required.
	ConfiguredKey string
	PollInterval  time.Duration
	SettleDelay   time.Duration
}

// Service drives the pairing flow. The challenge id lives only in memory.
type Service struct {
	cfg      Config
	api      API
	store    kv.Store
	app      appctl.Locator
	notifier notify.Notifier

	mu          sync.Mutex
	state       State
	challengeID string
}

// NewService wires the flow's collaborators.
func NewService(cfg Config, api API, store kv.Store, app appctl.Locator, n notify.Notifier) *Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.ClientVersion == "" {
		cfg.ClientVersion = anytype.APIVersion
	}
	if n == nil {
		n = notify.Discard{}
	}
	return &Service{cfg: cfg, api: api, store: store, app: app, notifier: n}
}

// State returns the current state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Service) fail(title string, err error) {
	s.notifier.Notify(notify.Notice{Style: notify.Failure, Title: title, Message: err.Error()})
}

// Check resolves Unknown into Unauthenticated or Paired. It runs the
// legacy key migration first.
func (s *Service) Check(ctx context.Context) (State, error) {
	if _, err := Migrate(ctx, s.store); err != nil {
		return s.State(), err
	}

	if s.cfg.ConfiguredKey == "" {
		_, ok, err := s.store.Get(ctx, kv.KeyAPIKey)
		if err != nil {
			return s.State(), fmt.Errorf("read api key: %w", err)
		}
		if !ok {
			s.setState(Unauthenticated)
			return Unauthenticated, nil
		}
	}

	if CheckTokenValidity(ctx, s.api, s.notifier, s.cfg.ClientVersion) {
		s.setState(Paired)
		return Paired, nil
	}
	s.setState(Unauthenticated)
	return Unauthenticated, nil
}

// CheckTokenValidity makes a cheap authenticated request and reports
// whether the current token is usable. Version mismatches are advisory.
// A connection failure counts as "possibly valid".
func CheckTokenValidity(ctx context.Context, api API, n notify.Notifier, clientVersion string) bool {
	_, header, err := api.ListSpaces(ctx, anytype.Page{Limit: 1})
	if err != nil {
		if errors.Is(err, anytype.ErrConnection) {
			slog.Warn("token check skipped, app unreachable")
			return true
		}
		slog.Info("stored api key rejected", "status", anytype.StatusOf(err), "error", err)
		return false
	}

	switch anytype.CheckVersion(anytype.ServerVersion(header), clientVersion) {
	case anytype.VersionClientOutdated:
		n.Notify(notify.Notice{
			Style:   notify.Info,
			Title:   "Please update anyctl",
			Message: "Anytype uses a newer API version than this client",
		})
	case anytype.VersionAppOutdated:
		n.Notify(notify.Notice{
			Style:   notify.Info,
			Title:   "Please update Anytype",
			Message: "This client expects a newer API version than the app provides",
		})
	}
	return true
}

// Start makes sure the app is up and requests a challenge.
func (s *Service) Start(ctx context.Context) error {
	if !s.app.Installed() {
		s.setState(Unauthenticated)
		s.fail("Anytype not installed", errors.New("install Anytype from https://anytype.io"))
		return ErrNotInstalled
	}

	running, err := s.app.Running()
	if err != nil {
		s.setState(Unauthenticated)
		s.fail("Failed to check Anytype", err)
		return err
	}
	if !running {
		s.notifier.Notify(notify.Notice{Style: notify.Info, Title: "Starting Anytype"})
		if err := s.app.Launch(ctx); err != nil {
			s.setState(Unauthenticated)
			s.fail("Failed to start Anytype", err)
			return err
		}
		if err := s.WaitForApp(ctx); err != nil {
			s.setState(Unauthenticated)
			return err
		}
	}

	id, err := s.api.CreateChallenge(ctx, s.cfg.AppName)
	if err != nil {
		s.setState(Unauthenticated)
		s.fail("Failed to start pairing", err)
		return fmt.Errorf("create challenge: %w", err)
	}

	s.mu.Lock()
	s.challengeID = id
	s.state = ChallengeStarted
	s.mu.Unlock()

	slog.Info("pairing challenge created", "app", s.cfg.AppName)
	s.notifier.Notify(notify.Notice{
		Style:   notify.Success,
		Title:   "Pairing started",
		Message: "Enter the 4-digit code shown in Anytype",
	})
	return nil
}

// WaitForApp polls until the app process is visible, then waits
// SettleDelay for its HTTP server to bind. It has no deadline of its own;
// cancel ctx to stop waiting.
func (s *Service) WaitForApp(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		running, err := s.app.Running()
		if err != nil {
			slog.Debug("process check failed", "error", err)
			continue
		}
		if !running {
			continue
		}

		if s.cfg.SettleDelay > 0 {
			timer := time.NewTimer(s.cfg.SettleDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		slog.Info("anytype is running")
		return nil
	}
}

// Complete exchanges the user's code for an API key and stores it.
func (s *Service) Complete(ctx context.Context, code string) error {
	if err := ValidateCode(code); err != nil {
		return err
	}

	s.mu.Lock()
	challengeID := s.challengeID
	s.mu.Unlock()
	if challengeID == "" {
		s.fail("Pairing failed", ErrNotStarted)
		return ErrNotStarted
	}

	key, err := s.api.CreateAPIKey(ctx, challengeID, code)
	if err != nil {
		s.reset()
		s.fail("Pairing failed", err)
		return fmt.Errorf("create api key: %w", err)
	}
	if err := s.store.Set(ctx, kv.KeyAPIKey, key); err != nil {
		s.reset()
		s.fail("Pairing failed", err)
		return fmt.Errorf("store api key: %w", err)
	}

	s.mu.Lock()
	s.challengeID = ""
	s.state = Paired
	s.mu.Unlock()

	slog.Info("pairing completed")
	s.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Successfully paired"})
	return nil
}

// Logout forgets the stored key.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, kv.KeyAPIKey); err != nil {
		return err
	}
	s.reset()
	slog.Info("api key removed")
	return nil
}

func (s *Service) reset() {
	s.mu.Lock()
	s.challengeID = ""
	s.state = Unauthenticated
	s.mu.Unlock()
}
