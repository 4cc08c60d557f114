package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"pdfcompare/internal/config"
	"pdfcompare/internal/logger"
)

var version = "1.0.0"

// appConfig is set by Execute; commands fall back to config.Default when it
// is nil.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "pdfcompare",
	Short: "Compare drawing revisions and mine CMM inspection reports",
	Long: `pdfcompare works on the text layer of PDF documents.

  diff   compares two revisions of a drawing word by word and reports the
         words that only one revision has, flagging tolerance markers that
         moved closer to nominal
  words  dumps the positioned words of one page
  cmm    scans a folder of CMM inspection reports and builds one deviation
         series per measured feature`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("pdfcompare executed without subcommand")

		_ = cmd.Help()
	},
}

// Execute runs the root command with cfg.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")
	appConfig = cfg

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func currentConfig() *config.Config {
	if appConfig == nil {
		return config.Default()
	}
	return appConfig
}
