package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the nextclass application
var rootCmd = &cobra.Command{
	Use:   "nextclass",
	Short: "Shows your next class from a linked Google Calendar",
	Long: `nextclass links a Google Calendar account once through the campus
backend and imports a forward-looking window of events. It shows the next
upcoming event with its campus, building and room decoded from the
free-text location.`,
	SilenceUsage: true,
}

var (
	configFile string
	debugMode  bool
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "nextclass version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newLinkCmd())
	rootCmd.AddCommand(newCalendarsCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newSignoutCmd())
	rootCmd.AddCommand(newVersionCmd())
}
