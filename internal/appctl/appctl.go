// Package appctl finds, inspects and launches the Anytype desktop app.
package appctl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

// Locator answers the questions the pairing flow asks about the app.
type Locator interface {
	Installed() bool
	Running() (bool, error)
	// Launch starts the app in the background without waiting for it.
	Launch(ctx context.Context) error
}

// Desktop locates the app on the local machine.
type Desktop struct {
	// Paths are candidate install locations checked by Installed.
	Paths []string
	// Executables are process names that count as "running".
	Executables []string
	// processes lists running executables; replaced in tests.
	processes func() ([]string, error)
	// command builds the launch command; replaced in tests.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewDesktop returns a Locator with the default paths for this OS.
func NewDesktop() *Desktop {
	d := &Desktop{
		Executables: []string{"Anytype", "anytype", "Anytype.exe"},
		processes:   listProcesses,
		command:     exec.CommandContext,
	}
	switch runtime.GOOS {
	case "darwin":
		d.Paths = []string{"/Applications/Anytype.app", expand("~/Applications/Anytype.app")}
	case "windows":
		d.Paths = []string{filepath.Join(os.Getenv("LOCALAPPDATA"), "Programs", "anytype", "Anytype.exe")}
	default:
		d.Paths = []string{"/usr/bin/anytype", "/opt/Anytype/anytype", expand("~/Applications/Anytype.AppImage")}
	}
	return d
}

func (d *Desktop) Installed() bool {
	for _, p := range d.Paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	_, err := exec.LookPath("anytype")
	return err == nil
}

func (d *Desktop) Running() (bool, error) {
	names, err := d.processes()
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}
	for _, n := range names {
		for _, want := range d.Executables {
			if strings.EqualFold(n, want) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (d *Desktop) Launch(ctx context.Context) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = d.command(ctx, "open", "-g", "-a", "Anytype")
	default:
		bin := d.binary()
		if bin == "" {
			return fmt.Errorf("anytype executable not found")
		}
		// detached: the app must outlive this command's context
		cmd = d.command(context.Background(), bin)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch anytype: %w", err)
	}
	slog.Info("anytype launched", "cmd", cmd.Path)
	go cmd.Wait()
	return nil
}

func (d *Desktop) binary() string {
	for _, p := range d.Paths {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	if p, err := exec.LookPath("anytype"); err == nil {
		return p
	}
	return ""
}

func listProcesses() ([]string, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		names = append(names, p.Executable())
	}
	return names, nil
}

func expand(p string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
