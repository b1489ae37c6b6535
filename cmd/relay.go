package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the email relay",
	Long: `Starts the email relay that turns form submissions into email. It
accepts POSTs on /api/send-email and /.netlify/functions/send-email,
sends through the configured SMTP server and records every attempt in
the submission log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Relay.Port = port
		}
		if err := cfg.Relay.Validate(); err != nil {
			return fmt.Errorf("invalid relay config: %w", err)
		}

		srv, closeLog, err := newRelayServer(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Email relay listening on http://%s\n", srv.ServerConfig().Addr())
		return srv.Run(ctx)
	},
}

func init() {
	relayCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(relayCmd)
}
