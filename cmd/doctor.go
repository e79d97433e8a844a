package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/appctl"
	"github.com/nextlevelbuilder/anyctl/internal/config"
	"github.com/nextlevelbuilder/anyctl/internal/kv"
)

// doctorTimeout bounds the live API probe.
const doctorTimeout = 3 * time.Second

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment, configuration and connection to Anytype",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor()
		},
	}
}

func runDoctor() {
	fmt.Println("anyctl doctor")
	fmt.Printf("  Version:  %s (API %s)\n", Version, anytype.APIVersion)
	fmt.Printf("  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go:       %s\n", runtime.Version())
	fmt.Println()

	cfgPath := resolveConfigPath()
	fmt.Printf("  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Println(" (NOT FOUND, using defaults)")
	} else {
		fmt.Println(" (OK)")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  Config load error: %s\n", err)
		return
	}

	// Storage
	fmt.Println()
	fmt.Println("  Storage:")
	dataDir := config.ExpandHome(cfg.Storage.DataDir)
	checkPath("Data dir", dataDir)
	if cfg.Storage.Driver == "sqlite" {
		checkPath("Database", filepath.Join(dataDir, kv.DBFileName))
	}
	fmt.Printf("    %-12s %v\n", "Keyring:", cfg.Storage.UseKeyring)
	fmt.Printf("    %-12s %v\n", "Encrypted:", cfg.Storage.EncryptionKey != "")

	// Desktop app
	fmt.Println()
	fmt.Println("  Anytype:")
	desktop := appctl.NewDesktop()
	fmt.Printf("    %-12s %v\n", "Installed:", desktop.Installed())
	if running, err := desktop.Running(); err != nil {
		fmt.Printf("    %-12s unknown (%s)\n", "Running:", err)
	} else {
		fmt.Printf("    %-12s %v\n", "Running:", running)
	}

	// API
	fmt.Println()
	fmt.Println("  API:")
	fmt.Printf("    %-12s %s\n", "Base URL:", cfg.API.BaseURL)
	store, err := kv.New(cfg.Storage)
	if err != nil {
		fmt.Printf("    %-12s %s\n", "Storage:", err)
		return
	}
	defer store.Close()
	if cfg.API.Key != "" {
		fmt.Printf("    %-12s %s\n", "Key:", "from config")
	} else if _, ok, _ := store.Get(context.Background(), kv.KeyAPIKey); ok {
		fmt.Printf("    %-12s %s\n", "Key:", "stored")
	} else {
		fmt.Printf("    %-12s %s\n", "Key:", "(not paired)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()
	client := anytype.NewClient(cfg.API, store)
	_, header, err := client.ListSpaces(ctx, anytype.Page{Limit: 1})
	switch {
	case err == nil:
		server := anytype.ServerVersion(header)
		fmt.Printf("    %-12s OK (server API %s)\n", "Reachable:", orUnknown(server))
		switch anytype.CheckVersion(server, anytype.APIVersion) {
		case anytype.VersionClientOutdated:
			fmt.Printf("    %-12s anyctl is older than the app, please update anyctl\n", "Version:")
		case anytype.VersionAppOutdated:
			fmt.Printf("    %-12s the app is older than anyctl, please update Anytype\n", "Version:")
		}
	case anytype.StatusOf(err) == 401 || anytype.StatusOf(err) == 403:
		fmt.Printf("    %-12s OK, but the key was rejected (run: anyctl auth pair)\n", "Reachable:")
	default:
		fmt.Printf("    %-12s %s\n", "Reachable:", err)
	}

	fmt.Println()
	fmt.Println("Doctor check complete.")
}

func checkPath(label, path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("    %-12s %s (NOT FOUND)\n", label+":", path)
	} else {
		fmt.Printf("    %-12s %s\n", label+":", path)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
