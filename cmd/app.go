package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/appctl"
	"github.com/nextlevelbuilder/anyctl/internal/config"
	"github.com/nextlevelbuilder/anyctl/internal/kv"
	"github.com/nextlevelbuilder/anyctl/internal/notify"
	"github.com/nextlevelbuilder/anyctl/internal/pairing"
	"github.com/nextlevelbuilder/anyctl/internal/pins"
)

// iconCacheSize bounds the number of file icons kept per run.
const iconCacheSize = 128

// app bundles what a command needs. Every command builds its own.
type app struct {
	cfg      *config.Config
	store    kv.Store
	client   *anytype.Client
	notifier notify.Notifier
}

// loadApp reads the config and opens storage. It exits on failure.
func loadApp() *app {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Log.Level)

	storage := cfg.Storage
	if ephemeral {
		storage.Driver = "memory"
	}
	store, err := kv.New(storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %s\n", err)
		os.Exit(1)
	}

	n := notify.NewTerminal(os.Stderr)
	return &app{
		cfg:      cfg,
		store:    store,
		notifier: n,
		client:   anytype.NewClient(cfg.API, store, anytype.WithNotifier(n)),
	}
}

func (a *app) close() {
	a.store.Close()
}

func (a *app) pairing() *pairing.Service {
	return pairing.NewService(pairing.Config{
		AppName:       a.cfg.API.AppName,
		ClientVersion: anytype.APIVersion,
		ConfiguredKey: a.cfg.API.Key,
		PollInterval:  a.cfg.Pairing.PollInterval.Std(),
		SettleDelay:   a.cfg.Pairing.SettleDelay.Std(),
	}, a.client, a.store, appctl.NewDesktop(), a.notifier)
}

func (a *app) pins() *pins.Store {
	return pins.NewStore(a.store, a.notifier)
}

func (a *app) icons() *anytype.IconFetcher {
	dir := filepath.Join(config.ExpandHome(a.cfg.Storage.DataDir), "icons")
	f, err := anytype.NewIconFetcher(a.cfg.API.GatewayURL, dir, iconCacheSize)
	if err != nil {
		return nil
	}
	return f
}

// requirePaired migrates legacy keys and makes sure a key is available
// before any API call.
func (a *app) requirePaired(ctx context.Context) {
	st, err := a.pairing().Check(ctx)
	if err != nil {
		fail(err)
	}
	if st != pairing.Paired {
		fail(errNotPaired)
	}
}

var errNotPaired = errors.New("not paired with Anytype, run: anyctl auth pair")

// commandContext is cancelled on Ctrl-C.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// fail prints err as a failure notice and exits.
func fail(err error) {
	printFailure(err)
	os.Exit(1)
}

func printFailure(err error) {
	notify.NewTerminal(os.Stderr).Notify(notify.Notice{
		Style:   notify.Failure,
		Title:   failureTitle(err),
		Message: err.Error(),
	})
}

func failureTitle(err error) string {
	var ve *anytype.ValidationError
	switch {
	case errors.Is(err, anytype.ErrConnection):
		return "Anytype is not reachable"
	case errors.Is(err, anytype.ErrPermission):
		return "Permission denied"
	case errors.Is(err, anytype.ErrNotFound):
		return "Not found"
	case errors.Is(err, anytype.ErrUnauthorized):
		return "Not authorized"
	case errors.Is(err, anytype.ErrParse):
		return "Unexpected response"
	case errors.As(err, &ve):
		return "Invalid input"
	}
	return "Error"
}

// exit1 exits without printing; used after a notice was already shown.
func exit1() {
	os.Exit(1)
}
