package pairing

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/kv"
	"github.com/nextlevelbuilder/anyctl/internal/notify"
)

type fakeAPI struct {
	mu             sync.Mutex
	listErr        error
	serverVersion  string
	challengeID    string
	challengeErr   error
	apiKey         string
	apiKeyErr      error
	calls          int
	gotChallengeID string
	gotCode        string
}

func (f *fakeAPI) ListSpaces(context.Context, anytype.Page) (*anytype.List[anytype.Space], http.Header, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	h := http.Header{}
	if f.serverVersion != "" {
		h.Set(anytype.VersionHeader, f.serverVersion)
	}
	return &anytype.List[anytype.Space]{}, h, nil
}

func (f *fakeAPI) CreateChallenge(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.challengeID, f.challengeErr
}

func (f *fakeAPI) CreateAPIKey(_ context.Context, challengeID, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotChallengeID, f.gotCode = challengeID, code
	return f.apiKey, f.apiKeyErr
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeApp struct {
	installed   bool
	running     atomic.Bool
	launched    atomic.Int32
	startOnPoll int32 // running flips true after this many Running calls post-launch
	polls       atomic.Int32
}

func (a *fakeApp) Installed() bool { return a.installed }

func (a *fakeApp) Running() (bool, error) {
	if a.launched.Load() > 0 && a.polls.Add(1) >= a.startOnPoll {
		a.running.Store(true)
	}
	return a.running.Load(), nil
}

func (a *fakeApp) Launch(context.Context) error {
	a.launched.Add(1)
	return nil
}

func newTestService(api *fakeAPI, app *fakeApp) (*Service, *kv.MemoryStore, *notify.Recorder) {
	store := kv.NewMemoryStore()
	rec := &notify.Recorder{}
	svc := NewService(Config{
		AppName:       "anyctl",
		ClientVersion: "2025-05-20",
		PollInterval:  5 * time.Millisecond,
		SettleDelay:   time.Millisecond,
	}, api, store, app, rec)
	return svc, store, rec
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		code    string
		wantErr bool
	}{
		{"1234", false},
		{"0000", false},
		{"", true},
		{"123", true},
		{"12345", true},
		{"12a4", true},
		{" 1234", true},
	}
	for _, tt := range tests {
		err := ValidateCode(tt.code)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
		}
		var ve *anytype.ValidationError
		if err != nil && !errors.As(err, &ve) {
			t.Errorf("ValidateCode(%q) returned %T, want *anytype.ValidationError", tt.code, err)
		}
	}
}

func TestComplete_InvalidCodeMakesNoRequest(t *testing.T) {
	api := &fakeAPI{apiKey: "k"}
	svc, _, _ := newTestService(api, &fakeApp{installed: true})
	for _, code := range []string{"", "12", "abcd"} {
		if err := svc.Complete(context.Background(), code); err == nil {
			t.Errorf("Complete(%q) should fail", code)
		}
	}
	if api.callCount() != 0 {
		t.Errorf("made %d requests, want 0", api.callCount())
	}
}

func TestComplete_WithoutChallenge(t *testing.T) {
	api := &fakeAPI{apiKey: "k"}
	svc, _, rec := newTestService(api, &fakeApp{installed: true})

	err := svc.Complete(context.Background(), "1234")
	if !errors.Is(err, ErrNotStarted) {
		t.Fatalf("err = %v, want ErrNotStarted", err)
	}
	if err.Error() != "Pairing not started." {
		t.Errorf("message = %q", err.Error())
	}
	if api.callCount() != 0 {
		t.Error("no request expected")
	}
	if rec.Last().Style != notify.Failure {
		t.Errorf("notice = %+v", rec.Last())
	}
}

func TestPairing_HappyPath(t *testing.T) {
	api := &fakeAPI{challengeID: "ch-1", apiKey: "secret"}
	app := &fakeApp{installed: true}
	app.running.Store(true)
	svc, store, rec := newTestService(api, app)
	ctx := context.Background()

	if st, err := svc.Check(ctx); err != nil || st != Unauthenticated {
		t.Fatalf("Check = %v, %v", st, err)
	}
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if svc.State() != ChallengeStarted {
		t.Fatalf("state = %v", svc.State())
	}
	if app.launched.Load() != 0 {
		t.Error("running app must not be launched")
	}
	if err := svc.Complete(ctx, "4321"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if api.gotChallengeID != "ch-1" || api.gotCode != "4321" {
		t.Errorf("exchange got %q/%q", api.gotChallengeID, api.gotCode)
	}
	if svc.State() != Paired {
		t.Errorf("state = %v", svc.State())
	}
	if v, ok, _ := store.Get(ctx, kv.KeyAPIKey); !ok || v != "secret" {
		t.Errorf("stored key = %q %v", v, ok)
	}
	if rec.Last().Title != "Successfully paired" {
		t.Errorf("notice = %+v", rec.Last())
	}

	// the challenge is single use
	if err := svc.Complete(ctx, "4321"); !errors.Is(err, ErrNotStarted) {
		t.Errorf("second Complete err = %v", err)
	}
}

func TestStart_NotInstalled(t *testing.T) {
	api := &fakeAPI{challengeID: "ch"}
	svc, _, rec := newTestService(api, &fakeApp{installed: false})

	if err := svc.Start(context.Background()); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("err = %v", err)
	}
	if api.callCount() != 0 {
		t.Error("no request expected")
	}
	if rec.Last().Title != "Anytype not installed" {
		t.Errorf("notice = %+v", rec.Last())
	}
	if svc.State() != Unauthenticated {
		t.Errorf("state = %v", svc.State())
	}
}

func TestStart_LaunchesAndWaits(t *testing.T) {
	api := &fakeAPI{challengeID: "ch"}
	app := &fakeApp{installed: true, startOnPoll: 3}
	svc, _, _ := newTestService(api, app)

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if app.launched.Load() != 1 {
		t.Errorf("launched %d times", app.launched.Load())
	}
	if app.polls.Load() < 3 {
		t.Errorf("polled %d times, want >= 3", app.polls.Load())
	}
	if svc.State() != ChallengeStarted {
		t.Errorf("state = %v", svc.State())
	}
}

func TestWaitForApp_Cancelled(t *testing.T) {
	app := &fakeApp{installed: true, startOnPoll: 1 << 30}
	app.launched.Store(1)
	svc, _, _ := newTestService(&fakeAPI{}, app)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := svc.WaitForApp(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}

func TestStart_ChallengeFails(t *testing.T) {
	api := &fakeAPI{challengeErr: anytype.ErrConnection}
	app := &fakeApp{installed: true}
	app.running.Store(true)
	svc, _, rec := newTestService(api, app)

	if err := svc.Start(context.Background()); !errors.Is(err, anytype.ErrConnection) {
		t.Fatalf("err = %v", err)
	}
	if svc.State() != Unauthenticated {
		t.Errorf("state = %v", svc.State())
	}
	if rec.Last().Style != notify.Failure {
		t.Errorf("notice = %+v", rec.Last())
	}
}

func TestComplete_ExchangeFails(t *testing.T) {
	api := &fakeAPI{challengeID: "ch", apiKeyErr: &anytype.APIError{Status: 400}}
	app := &fakeApp{installed: true}
	app.running.Store(true)
	svc, store, _ := newTestService(api, app)
	ctx := context.Background()

	if err := svc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.Complete(ctx, "1111"); err == nil {
		t.Fatal("expected error")
	}
	if svc.State() != Unauthenticated {
		t.Errorf("state = %v", svc.State())
	}
	if _, ok, _ := store.Get(ctx, kv.KeyAPIKey); ok {
		t.Error("no key should be stored")
	}
}

func TestCheck_StoredToken(t *testing.T) {
	tests := []struct {
		name       string
		listErr    error
		version    string
		wantState  State
		wantNotice string
	}{
		{"valid", nil, "2025-05-20", Paired, ""},
		{"server_newer", nil, "2025-11-08", Paired, "Please update anyctl"},
		{"server_older", nil, "2025-01-01", Paired, "Please update Anytype"},
		{"connection_refused", anytype.ErrConnection, "", Paired, ""},
		{"unauthorized", &anytype.APIError{Status: 401}, "", Unauthenticated, ""},
		{"forbidden", &anytype.APIError{Status: 403}, "", Unauthenticated, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{listErr: tt.listErr, serverVersion: tt.version}
			svc, store, rec := newTestService(api, &fakeApp{installed: true})
			store.Set(context.Background(), kv.KeyAPIKey, "tok")

			st, err := svc.Check(context.Background())
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if st != tt.wantState {
				t.Errorf("state = %v, want %v", st, tt.wantState)
			}
			if got := rec.Last().Title; got != tt.wantNotice {
				t.Errorf("notice = %q, want %q", got, tt.wantNotice)
			}
		})
	}
}

func TestCheck_ConfiguredKeySkipsStore(t *testing.T) {
	api := &fakeAPI{}
	store := kv.NewMemoryStore()
	svc := NewService(Config{ConfiguredKey: "pref"}, api, store, &fakeApp{}, nil)
	st, err := svc.Check(context.Background())
	if err != nil || st != Paired {
		t.Fatalf("Check = %v, %v", st, err)
	}
	if api.callCount() != 1 {
		t.Errorf("expected one validation request, got %d", api.callCount())
	}
}

func TestLogout(t *testing.T) {
	svc, store, _ := newTestService(&fakeAPI{}, &fakeApp{})
	ctx := context.Background()
	store.Set(ctx, kv.KeyAPIKey, "tok")
	if err := svc.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, kv.KeyAPIKey); ok {
		t.Error("key still stored")
	}
	if svc.State() != Unauthenticated {
		t.Errorf("state = %v", svc.State())
	}
}
