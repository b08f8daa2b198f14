package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd(cfg Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "clinic-console",
		Short:        "Admin console for the clinic management API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg)
		},
	}
	root.PersistentFlags().StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Clinic API base URL (CLINIC_API_URL)")

	root.AddCommand(serveCmd(&cfg))
	root.AddCommand(lookupCmd(&cfg))
	return root
}

func serve(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runServer(ctx, cfg)
}

func serveCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "Listen host (HOST); the console acts with the operator's token, keep it local")
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "Listen port (PORT)")
	return cmd
}

func lookupCmd(cfg *Config) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:       "lookup <patients|doctors|mappings> [id]",
		Short:     "Fetch all records of a resource, or one by id",
		Long:      "Fetch all records of a resource, or one by id. For mappings the id is a patient id.",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"patients", "doctors", "mappings"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := lookups[args[0]]; !ok {
				return fmt.Errorf("unknown resource %q", args[0])
			}
			id := ""
			if len(args) == 2 {
				id = args[1]
			}
			return runLookup(cmd.Context(), *cfg, email, password, args[0], id, len(args) == 2, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&cfg.Token, "token", cfg.Token, "Bearer token (CLINIC_TOKEN)")
	cmd.Flags().StringVar(&email, "email", "", "Log in with this email before the lookup")
	cmd.Flags().StringVar(&password, "password", "", "Password for --email")
	return cmd
}

func runLookup(ctx context.Context, cfg Config, email, password, resource, id string, byID bool, out io.Writer) error {
	session := NewSession()
	api, err := NewAPIClient(cfg.APIURL, cfg.HTTPTimeout, session, NewActivityLog(nil))
	if err != nil {
		return err
	}

	token := cfg.Token
	if email != "" {
		token, err = requestToken(ctx, api, email, password)
		if err != nil {
			return err
		}
	}
	if token != "" {
		session.Login(token, email)
	}

	panel, err := NewToolbar(api).Lookup(ctx, resource, id, byID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, panel.Title)
	fmt.Fprintln(out, panel.Body)
	return nil
}
