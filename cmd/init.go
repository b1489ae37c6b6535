package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bytetobeacon/beacon/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize beacon configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the blog and the email relay, then writes ` + config.LocalPath + ` or the user config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.RunWizard()
		if err != nil {
			return err
		}
		if err := cfg.Relay.Validate(); err != nil {
			fmt.Printf("Note: the email relay is not fully configured (%v).\n", err)
			fmt.Printf("Edit %s before running `beacon relay`.\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
