package cmd

import (
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voterlookup/browser"
	"voterlookup/config"
	"voterlookup/credentials"
	"voterlookup/server"
	"voterlookup/session"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the lookup over HTTP",
	Long: `serve logs in once and keeps the browser session open, answering
GET /search/{name} requests with JSON results. Filter fields are query
parameters: address, city, zip, phone, voter_id.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "bind address (default from config, :8000)")
	serveCmd.Flags().BoolVar(&flagDetails, "extract-details", false, "extract the full record for every result")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if debug {
		cfg.Headless = false
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	store := credentials.NewStore(cfg.CredentialsDir)
	username, password, err := loadOrPromptCredentials(store)
	if err != nil {
		return err
	}

	sess, err := browser.New(cfg.Headless)
	if err != nil {
		return fmt.Errorf("failed to start browser: %v", err)
	}
	defer sess.Close()

	driver := session.New(sess, cfg, log, flagDetails)
	if err := driver.Authenticate(username, password); err != nil {
		return fmt.Errorf("login failed: %v", err)
	}

	log.Info("serving", zap.String("listen", cfg.Listen))
	return http.ListenAndServe(cfg.Listen, server.New(driver, log).Handler())
}
