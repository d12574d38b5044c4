package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"voterlookup/config"
	"voterlookup/credentials"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage the saved portal credentials",
}

var credentialsDeleteCmd = &cobra.Command{
	Use:          "delete",
	Short:        "Delete the saved credentials",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := credentials.NewStore(cfg.CredentialsDir).Delete(); err != nil {
			return fmt.Errorf("failed to delete credentials: %v", err)
		}
		fmt.Println("Saved credentials deleted.")
		return nil
	},
}

func init() {
	credentialsCmd.AddCommand(credentialsDeleteCmd)
	rootCmd.AddCommand(credentialsCmd)
}
