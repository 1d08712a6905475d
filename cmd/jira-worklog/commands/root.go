package commands

import (
	"strings"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MichelePan/jira-worklog/internal/config"
	"github.com/MichelePan/jira-worklog/internal/jira"
	"github.com/MichelePan/jira-worklog/internal/logging"
	"github.com/MichelePan/jira-worklog/internal/report"
	"github.com/MichelePan/jira-worklog/internal/web"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose     bool
	listenAddr  string
	openBrowser bool

	cfg        *config.AppConfig
	jiraClient jira.Client
)

var rootCmd = &cobra.Command{
	Use:   "jira-worklog",
	Short: "jira-worklog serves a worklog reporting dashboard backed by Jira",
	Long: `A reporting service that aggregates Jira worklog entries by day, user and
issue, and exposes the detail, pivot and per-issue views as JSON and CSV.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		jiraClient = jira.NewClient(cfg.Jira)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("jira-worklog starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := report.NewService(jiraClient, cfg.Report)
		router := web.NewRouter(svc)

		addr := cfg.ListenAddr
		if listenAddr != "" {
			addr = listenAddr
		}

		if openBrowser {
			go func() {
				if err := browser.OpenURL(dashboardURL(addr)); err != nil {
					log.Warn().Err(err).Msg("Failed to open browser")
				}
			}()
		}

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		return router.Run(addr)
	},
}

// dashboardURL turns a listen address like ":8787" into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/api/report"
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides LISTEN_ADDR)")
	rootCmd.Flags().BoolVar(&openBrowser, "open", false, "open the dashboard in the default browser")
}
