package main

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/pokedex/internal/config"
	"github.com/jonathan/pokedex/internal/logging"
	"github.com/jonathan/pokedex/internal/observability"
	"github.com/jonathan/pokedex/internal/site"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <dir>",
	Short: "Check local links of a generated site",
	Long:  "Parses every .html file under dir and reports href and src targets that do not exist. Exits non-zero when any link is broken.",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" {
		level = "warn"
	}
	return verifySite(cmd, args[0], logging.New(cmd.ErrOrStderr(), level))
}

func verifySite(cmd *cobra.Command, root string, logger zerolog.Logger) error {
	report, err := site.Verify(root, logger)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	broken := make([]string, len(report.Broken))
	for i, b := range report.Broken {
		broken[i] = b.String()
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintBrokenLinks(report.Pages, broken)

	if !report.OK() {
		return fmt.Errorf("found %d broken link(s)", len(report.Broken))
	}
	return nil
}

// outputRoot is the directory holding the index page; entry pages are
// expected below it.
func outputRoot(cfg *config.Config) string {
	return filepath.Dir(cfg.MainPage)
}
