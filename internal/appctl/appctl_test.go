package appctl

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDesktop_Installed(t *testing.T) {
	dir := t.TempDir()
	app := filepath.Join(dir, "Anytype.app")
	d := &Desktop{Paths: []string{"", filepath.Join(dir, "missing")}}
	t.Setenv("PATH", dir)
	if d.Installed() {
		t.Fatal("nothing installed yet")
	}
	if err := os.Mkdir(app, 0o755); err != nil {
		t.Fatal(err)
	}
	d.Paths = append(d.Paths, app)
	if !d.Installed() {
		t.Fatal("expected installed")
	}
}

func TestDesktop_Running(t *testing.T) {
	d := &Desktop{
		Executables: []string{"Anytype"},
		processes:   func() ([]string, error) { return []string{"bash", "anytype"}, nil },
	}
	ok, err := d.Running()
	if err != nil || !ok {
		t.Fatalf("Running = %v, %v", ok, err)
	}

	d.processes = func() ([]string, error) { return []string{"bash"}, nil }
	if ok, _ := d.Running(); ok {
		t.Error("should not be running")
	}

	d.processes = func() ([]string, error) { return nil, errors.New("denied") }
	if _, err := d.Running(); err == nil {
		t.Error("expected error")
	}
}

func TestDesktop_LaunchUsesCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "anytype")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	var gotName string
	d := &Desktop{
		Paths: []string{bin},
		command: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			gotName = name
			return exec.CommandContext(ctx, "true")
		},
	}
	if err := d.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	want := bin
	if runtime.GOOS == "darwin" {
		want = "open"
	}
	if gotName != want {
		t.Errorf("launched %q, want %q", gotName, want)
	}
}
