package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"neuroflow/internal/version"
	"neuroflow/pkg/log"
)

var (
	logLevel   string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "neuroflow",
	Short: "neuroflow is a vision-based traffic signal controller",
	Long: `Detects vehicles in a video stream, scores traffic density and drives
signal decisions with persisted analytics.
Version: ` + version.VERSION + `/` + version.COMMIT,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.InitLog(logLevel)
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "etc/config.yaml", "Path to config file")

	rootCmd.AddCommand(serveCommand)
	rootCmd.AddCommand(migrateDBCommand)
	rootCmd.AddCommand(exportCommand)
}
