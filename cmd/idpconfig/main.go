package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/angryss/idp-config/pkg/logging"
)

var commonCfg struct {
	verbose bool
	jsonLog bool
	apiURL  string
	actor   string
}

func cli() {
	var rootCmd = &cobra.Command{
		Use:   "idpconfig",
		Short: "Inspect and validate schema-driven resource configuration",
	}
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&commonCfg.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&commonCfg.jsonLog, "json-log", false, "Enable JSON logging")
	flags.StringVar(&commonCfg.apiURL, "api", "http://localhost:8080", "Platform API base URL")
	flags.StringVar(&commonCfg.actor, "actor", "", "Actor identity forwarded with schema fetches")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logOpts := logging.LogOpts{Verbose: commonCfg.verbose}
		if commonCfg.jsonLog {
			logOpts.Encoding = "json"
		}
		zap.ReplaceGlobals(logOpts.NewLogger())
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		zap.L().Sync() //nolint:errcheck
	}

	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newValidateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	cli()
}
