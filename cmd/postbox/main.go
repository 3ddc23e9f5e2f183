package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/G-Node/postbox/postbox"
	"github.com/G-Node/postbox/postbox/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	verbose    bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "postbox",
		Short: "Contact form service relaying messages to a form relay",
		Long: `postbox serves a contact form, validates what visitors enter, and
posts each valid submission to a form relay endpoint that forwards it as email.

Configuration is read from an optional YAML file, then from POSTBOX_*
environment variables, then from command line flags.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newServeCmd(), newAttemptsCmd())
	return root
}

func newLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func newServeCmd() *cobra.Command {
	var (
		port           uint16
		relayURL       string
		dbPath         string
		silentFailures bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the contact form web service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := postbox.LoadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("relay-url") {
				cfg.RelayURL = relayURL
			}
			if flags.Changed("db") {
				cfg.DBPath = dbPath
			}
			if flags.Changed("silent-failures") {
				cfg.SilentFailures = silentFailures
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			srv, err := postbox.NewService(cfg, logger)
			if err != nil {
				return err
			}
			if err := srv.Start(); err != nil {
				return err
			}
			defer srv.Stop()
			srv.WaitForInterrupt()
			return nil
		},
	}
	cmd.Flags().Uint16VarP(&port, "port", "p", 3000, "port to listen on")
	cmd.Flags().StringVar(&relayURL, "relay-url", "", "form relay endpoint")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite attempt log path (empty disables the log)")
	cmd.Flags().BoolVar(&silentFailures, "silent-failures", false, "show relay transport errors as submitted")
	return cmd
}

func newAttemptsCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "List the most recent relay attempts from the attempt log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") {
				cfg, err := postbox.LoadConfig(configPath)
				if err != nil {
					return err
				}
				dbPath = cfg.DBPath
			}
			if dbPath == "" {
				return fmt.Errorf("no attempt log configured")
			}
			conn, err := db.New(dbPath)
			if err != nil {
				return err
			}
			defer conn.Close()
			attempts, err := conn.RecentAttempts(limit)
			if err != nil {
				return err
			}
			return printAttempts(cmd.OutOrStdout(), attempts)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite attempt log path")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of attempts to show (0 for all)")
	return cmd
}

func printAttempts(out io.Writer, attempts []db.Attempt) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVIEW\tSTART\tDURATION\tOUTCOME\tSTATUS\tERROR")
	timefmt := "15:04:05 Mon Jan 2 2006"
	for _, a := range attempts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n", a.ID, a.ViewID, a.StartTime.Format(timefmt), a.Duration(), a.Outcome, a.Status, a.Error)
	}
	return tw.Flush()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
