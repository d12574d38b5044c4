// Package config holds the runtime settings of the lookup tool.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings collects everything tunable about a run. Values come from
// defaults, an optional config file, and VOTERLOOKUP_* environment
// variables, in that order of precedence.
type Settings struct {
	// BaseURL is the search landing page; authentication succeeds when the
	// post-login URL still points at it.
	BaseURL string `mapstructure:"base_url"`

	Headless bool `mapstructure:"headless"`

	// Bounded waits. Timeouts other than the login one are soft: the driver
	// proceeds with whatever the page holds.
	LoginTimeout  time.Duration `mapstructure:"login_timeout"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
	DetailTimeout time.Duration `mapstructure:"detail_timeout"`

	// QueryPause is the fixed delay between sequential queries.
	QueryPause time.Duration `mapstructure:"query_pause"`

	// SettleDelay gives the portal's JavaScript time to finish updating the
	// grid after the results container appears.
	SettleDelay time.Duration `mapstructure:"settle_delay"`

	// DirectFetch fetches detail pages over plain HTTP with the session's
	// cookies instead of opening a browser tab.
	DirectFetch bool `mapstructure:"direct_fetch"`

	// CredentialsDir is where the encrypted credential files live.
	CredentialsDir string `mapstructure:"credentials_dir"`

	// RedisAddr enables result memoization when non-empty.
	RedisAddr string        `mapstructure:"redis_addr"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`

	// SheetsCredentialsFile is the Google service-account key used in
	// spreadsheet mode.
	SheetsCredentialsFile string `mapstructure:"sheets_credentials_file"`

	// Listen is the HTTP API bind address for the serve command.
	Listen string `mapstructure:"listen"`
}

// Load reads settings from the given config file (optional) plus the
// environment.
func Load(cfgFile string) (Settings, error) {
	v := viper.New()
	v.SetDefault("base_url", "https://www.gopdatacenter.com/rnc/RecordLookup/RecordLookup.aspx")
	v.SetDefault("headless", true)
	v.SetDefault("login_timeout", 15*time.Second)
	v.SetDefault("search_timeout", 10*time.Second)
	v.SetDefault("detail_timeout", 10*time.Second)
	v.SetDefault("query_pause", time.Second)
	v.SetDefault("settle_delay", time.Second)
	v.SetDefault("direct_fetch", false)
	v.SetDefault("credentials_dir", ".")
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("sheets_credentials_file", "service-account.json")
	v.SetDefault("listen", ":8000")

	v.SetEnvPrefix("VOTERLOOKUP")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return s, nil
}
