package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/kv"
	"github.com/nextlevelbuilder/anyctl/internal/notify"
	"github.com/nextlevelbuilder/anyctl/internal/pairing"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Pair with Anytype and manage the API key",
	}

	cmd.AddCommand(authPairCmd())
	cmd.AddCommand(authStatusCmd())
	cmd.AddCommand(authLogoutCmd())

	return cmd
}

func authPairCmd() *cobra.Command {
	var (
		code  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Pair with the Anytype app (interactive unless --code is given)",
		Long: "Starts Anytype if needed, requests a pairing challenge and exchanges the\n" +
			"4-digit code shown in the app for an API key.",
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()

			svc := a.pairing()
			if !force {
				if st, err := svc.Check(ctx); err == nil && st == pairing.Paired {
					a.notifier.Notify(notify.Notice{Style: notify.Info, Title: "Already paired", Message: "use --force to pair again"})
					return
				}
			}

			if code != "" {
				if err := pairing.ValidateCode(code); err != nil {
					fail(err)
				}
			} else if !isInteractive() {
				fail(errors.New("no terminal for the code prompt, pass --code"))
			}

			if err := svc.Start(ctx); err != nil {
				fail(err)
			}

			if code == "" {
				var err error
				code, err = promptCode()
				if err != nil {
					fail(err)
				}
			}

			if err := svc.Complete(ctx, code); err != nil {
				// Complete already reported the failure.
				if errors.As(err, new(*anytype.ValidationError)) {
					printFailure(err)
				}
				exit1()
			}
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "4-digit code shown in Anytype (skips the prompt)")
	cmd.Flags().BoolVar(&force, "force", false, "pair again even if a valid key is stored")
	return cmd
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a usable API key is available",
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()

			st, err := a.pairing().Check(ctx)
			if err != nil {
				fail(err)
			}

			source := "none"
			if a.cfg.API.Key != "" {
				source = "config"
			} else if _, ok, _ := a.store.Get(ctx, kv.KeyAPIKey); ok {
				source = "stored"
			}

			status := struct {
				State   string `json:"state"`
				BaseURL string `json:"base_url"`
				KeyFrom string `json:"key_source"`
			}{st.String(), a.client.BaseURL(), source}

			if ok, err := printStructured(cmd.OutOrStdout(), status); ok {
				if err != nil {
					fail(err)
				}
				return
			}
			fmt.Printf("State:    %s\n", status.State)
			fmt.Printf("API:      %s\n", status.BaseURL)
			fmt.Printf("Key from: %s\n", status.KeyFrom)
			if st != pairing.Paired {
				exit1()
			}
		},
	}
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored API key",
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()

			if err := a.pairing().Logout(ctx); err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Logged out"})
			if a.cfg.API.Key != "" {
				a.notifier.Notify(notify.Notice{Style: notify.Info, Title: "api.key is still set in the config file"})
			}
		},
	}
}
