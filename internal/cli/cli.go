package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"valueanalyzer/internal/analysis"
	"valueanalyzer/internal/config"
	"valueanalyzer/internal/dashboard"
	"valueanalyzer/internal/logger"
	"valueanalyzer/internal/report"
)

// ErrAnalysisFailed is returned after the failure summary has been printed.
var ErrAnalysisFailed = errors.New("analysis failed")

// Runner executes one analysis; tests substitute it.
type Runner interface {
	Run(ctx context.Context, ticker string) (*analysis.Analysis, error)
}

// Deps lets tests replace configuration loading, the analyzer and the prompt.
type Deps struct {
	LoadConfig func() (*config.Config, error)
	NewRunner  func(cfg *config.Config) Runner
	AskTicker  func() (string, error)
	Now        func() time.Time
}

// DefaultDeps wires the real implementations.
func DefaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewRunner:  func(cfg *config.Config) Runner { return analysis.NewFromConfig(cfg) },
		AskTicker:  askTicker,
		Now:        time.Now,
	}
}

type options struct {
	noDashboard bool
	timeout     time.Duration
	dir         string
}

// NewRootCmd creates the root command
func NewRootCmd(deps Deps) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "valueanalyzer [TICKER]",
		Short: "Value investing snapshot for a stock ticker",
		Long: `valueanalyzer fetches a company's annual statements, overview and daily prices
from Alpha Vantage, derives valuation ratios and writes an HTML dashboard.

Note: the Alpha Vantage free tier allows 5 calls per minute; each run makes 5.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fail on a bad configuration before asking for anything.
			cfg, err := loadConfig(deps, opts)
			if err != nil {
				return err
			}

			ticker := ""
			if len(args) == 1 {
				ticker = args[0]
			} else {
				t, err := deps.AskTicker()
				if err != nil {
					return fmt.Errorf("failed to read ticker: %w", err)
				}
				ticker = t
			}
			return run(cmd.Context(), cmd.OutOrStdout(), deps, cfg, opts, ticker)
		},
	}

	cmd.Flags().BoolVar(&opts.noDashboard, "no-dashboard", false, "Skip writing the HTML dashboard")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (overrides REQUEST_TIMEOUT)")
	cmd.Flags().StringVar(&opts.dir, "dashboard-dir", "", "Directory for the dashboard (overrides DASHBOARD_DIR)")

	return cmd
}

// loadConfig loads the configuration, applies flag overrides and sets up logging.
func loadConfig(deps Deps, opts options) (*config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, err
	}
	if opts.timeout > 0 {
		cfg.RequestTimeout = opts.timeout
	}
	if opts.dir != "" {
		cfg.DashboardDir = opts.dir
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	return cfg, nil
}

func run(ctx context.Context, out io.Writer, deps Deps, cfg *config.Config, opts options, ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	fmt.Fprintf(out, "Analyzing %s...\n\n", ticker)

	a, err := deps.NewRunner(cfg).Run(ctx, ticker)
	if err != nil {
		report.PrintFailure(out, err)
		return fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	report.Print(out, a)

	if !opts.noDashboard {
		path, err := dashboard.WriteFile(cfg.DashboardDir, a, deps.Now())
		if err != nil {
			// The analysis itself succeeded; only the chart is lost.
			logger.L().Error().Err(err).Msg("dashboard not written")
		} else {
			fmt.Fprintf(out, "\nDashboard written to %s\n", path)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, report.StatusComplete)
	return nil
}

func askTicker() (string, error) {
	var ticker string
	err := survey.AskOne(&survey.Input{
		Message: "Please enter a stock ticker symbol (e.g., AAPL):",
	}, &ticker, survey.WithValidator(survey.Required))
	return ticker, err
}
