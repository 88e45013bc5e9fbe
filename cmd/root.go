// ABOUTME: Root command for the forum CLI
// ABOUTME: Handles global flags, configuration, and logging setup

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/markalston/forum-client/internal/config"
	"github.com/markalston/forum-client/internal/logger"
)

var (
	apiURL     string
	jsonOutput bool
	configPath string
	tokenStore string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "forum",
	Short: "Terminal client for the forum",
	Long: `forum is a terminal client for the discussion forum.

Browse, search and sort threads, read comments, post and edit as yourself,
or run "forum tui" for the interactive interface.

Exit codes:
  0 - Success
  1 - Request rejected by the backend
  2 - Error (usage, validation, connectivity)

Environment Variables:
  FORUM_API_URL      Backend API URL (default: http://localhost:8080)
  FORUM_CONFIG_DIR   Directory for config.yaml, the token and recent searches
  FORUM_TOKEN_STORE  Where the login token is kept: file, redis or memory
  FORUM_PASSWORD     Password for login and signup when --password is omitted
  LOG_LEVEL          debug, info, warn or error (default: info)
  LOG_FORMAT         text or json (default: text)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(os.Stderr, logger.OptionsFromEnv())
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides FORUM_API_URL and the config file)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default: <config dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&tokenStore, "token-store", "", "Token storage: file, redis or memory (overrides FORUM_TOKEN_STORE)")
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if tokenStore != "" {
		cfg.Auth.Store = tokenStore
		if err := cfg.Auth.Validate(); err != nil {
			return nil, err
		}
	}
	cfg.API.URL = GetAPIURL(cfg)
	return cfg, nil
}

// GetAPIURL returns the API URL from flag, env/config, or default (in priority order)
func GetAPIURL(cfg *config.Config) string {
	if apiURL != "" {
		return apiURL
	}
	if cfg != nil && cfg.API.URL != "" {
		return cfg.API.URL
	}
	if envURL := os.Getenv("FORUM_API_URL"); envURL != "" {
		return envURL
	}
	return config.Default().API.URL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
