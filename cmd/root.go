// Package cmd wires the CLI: direct lookups on the root command, plus the
// serve and credentials subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voterlookup/browser"
	"voterlookup/cache"
	"voterlookup/config"
	"voterlookup/credentials"
	"voterlookup/export"
	"voterlookup/records"
	"voterlookup/session"
	"voterlookup/sheets"
)

var (
	cfgFile string
	debug   bool

	flagAddress string
	flagCity    string
	flagZip     string
	flagPhone   string
	flagVoterID string

	flagDetails    bool
	flagExport     string
	flagOutput     string
	flagDeleteCred bool

	flagSheets             bool
	flagSpreadsheetID      string
	flagSheetName          string
	flagNameColumn         string
	flagResultsStartColumn string
	flagStartRow           int
	flagRowLimit           int
)

var rootCmd = &cobra.Command{
	Use:   "voterlookup [names...]",
	Short: "Look up voter records on the GOP Data Center portal",
	Long: `voterlookup authenticates against the GOP Data Center record-lookup
portal with a headless browser, runs one search per given name, and prints,
exports, or writes back the structured results.`,
	SilenceUsage: true,
	RunE:         runLookup,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging and a visible browser window")

	rootCmd.Flags().StringVar(&flagAddress, "address", "", "filter: street address")
	rootCmd.Flags().StringVar(&flagCity, "city", "", "filter: city")
	rootCmd.Flags().StringVar(&flagZip, "zip", "", "filter: zip code")
	rootCmd.Flags().StringVar(&flagPhone, "phone", "", "filter: phone number")
	rootCmd.Flags().StringVar(&flagVoterID, "voter-id", "", "filter: voter id")

	rootCmd.Flags().BoolVar(&flagDetails, "extract-details", false, "open each result's detail page and extract the full record")
	rootCmd.Flags().StringVar(&flagExport, "export", "", "write results to a file: json or csv")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "output file path (default voter_results_<timestamp>.<ext>)")
	rootCmd.Flags().BoolVar(&flagDeleteCred, "delete-credentials", false, "delete the saved credentials and exit")

	rootCmd.Flags().BoolVar(&flagSheets, "sheets", false, "read names from and write results to a Google Sheet")
	rootCmd.Flags().StringVar(&flagSpreadsheetID, "spreadsheet-id", "", "spreadsheet to process in sheets mode")
	rootCmd.Flags().StringVar(&flagSheetName, "sheet-name", "Sheet1", "worksheet name")
	rootCmd.Flags().StringVar(&flagNameColumn, "name-column", "A", "column holding the names to look up")
	rootCmd.Flags().StringVar(&flagResultsStartColumn, "results-start-column", "B", "first column results are written to")
	rootCmd.Flags().IntVar(&flagStartRow, "start-row", 2, "first data row (1-based)")
	rootCmd.Flags().IntVar(&flagRowLimit, "row-limit", 0, "max rows to process in one run, 0 = all")
}

// newLogger builds the run logger. Debug mode switches to the development
// encoder.
func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}

func runLookup(cmd *cobra.Command, args []string) error {
	godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if debug {
		cfg.Headless = false
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	store := credentials.NewStore(cfg.CredentialsDir)
	if flagDeleteCred {
		if err := store.Delete(); err != nil {
			return fmt.Errorf("failed to delete credentials: %v", err)
		}
		fmt.Println("Saved credentials deleted.")
		return nil
	}

	if flagSheets && len(args) > 0 {
		log.Warn("both names and --sheets given, ignoring command-line names")
		args = nil
	}
	if !flagSheets && len(args) == 0 {
		return fmt.Errorf("nothing to do: give one or more names, or --sheets")
	}
	if flagSheets && flagSpreadsheetID == "" {
		return fmt.Errorf("--sheets requires --spreadsheet-id")
	}
	if flagExport != "" && flagExport != "json" && flagExport != "csv" {
		return fmt.Errorf("unsupported export format %q (json or csv)", flagExport)
	}

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

	filters := session.Filters{
		Address: flagAddress,
		City:    flagCity,
		Zip:     flagZip,
		Phone:   flagPhone,
		VoterID: flagVoterID,
	}
	search := newSearchFunc(driver, cfg, filters, log)

	if flagSheets {
		return runSheets(cmd.Context(), cfg, search, log)
	}
	return runDirect(args, search, cfg.QueryPause, log)
}

// newSearchFunc adapts the driver's per-name search, optionally memoized in
// Redis when an address is configured.
func newSearchFunc(driver *session.Driver, cfg config.Settings, filters session.Filters, log *zap.Logger) sheets.SearchFunc {
	plain := func(name string) ([]records.Summary, error) {
		return driver.SearchOne(name, filters)
	}
	if cfg.RedisAddr == "" {
		return plain
	}

	log.Info("caching results in redis", zap.String("addr", cfg.RedisAddr))
	client := cache.New(cfg.RedisAddr)
	return func(name string) ([]records.Summary, error) {
		key := cache.Key(name, filters.Address, filters.City, filters.Zip,
			filters.Phone, filters.VoterID, fmt.Sprint(flagDetails))
		return cache.Memoize(context.Background(), client, key, cfg.CacheTTL, func() ([]records.Summary, error) {
			return plain(name)
		})
	}
}

func runDirect(names []string, search sheets.SearchFunc, pause time.Duration, log *zap.Logger) error {
	results := export.ResultSet{}
	for i, name := range names {
		recs, err := search(name)
		if err != nil {
			log.Warn("query failed", zap.String("name", name), zap.Error(err))
			recs = nil
		}
		results.Add(name, recs)
		log.Info("query finished", zap.String("name", name), zap.Int("results", len(recs)))

		// Fixed pause between sequential queries; the portal gets no
		// back-to-back submissions from a batch run.
		if i < len(names)-1 {
			time.Sleep(pause)
		}
	}

	export.Render(os.Stdout, results)

	if flagExport == "" {
		return nil
	}
	path := flagOutput
	if path == "" {
		path = export.DefaultFilename(flagExport)
	}
	var err error
	switch flagExport {
	case "json":
		err = export.WriteJSON(path, results)
	case "csv":
		err = export.WriteCSV(path, results)
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nResults written to %s\n", path)
	return nil
}

func runSheets(ctx context.Context, cfg config.Settings, search sheets.SearchFunc, log *zap.Logger) error {
	client, err := sheets.NewGoogleClient(ctx, cfg.SheetsCredentialsFile)
	if err != nil {
		return err
	}

	runner := sheets.NewRunner(client, search, sheets.RunnerConfig{
		SpreadsheetID:      flagSpreadsheetID,
		SheetName:          flagSheetName,
		NameColumn:         flagNameColumn,
		ResultsStartColumn: flagResultsStartColumn,
		StartRow:           flagStartRow,
		RowLimit:           flagRowLimit,
	}, log)

	updated, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("sheet run complete", zap.Int("rows_updated", updated))
	return nil
}

func loadOrPromptCredentials(store *credentials.Store) (string, string, error) {
	if store.Has() {
		return store.Load()
	}
	username, password, err := credentials.Prompt()
	if err != nil {
		return "", "", err
	}
	if username == "" || password == "" {
		return "", "", fmt.Errorf("username and password are required")
	}
	if err := store.Save(username, password); err != nil {
		return "", "", fmt.Errorf("failed to save credentials: %v", err)
	}
	return username, password, nil
}
