// Command check runs one AI visibility check and prints the result with its
// traffic estimate as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "check",
	Short: "Measure how AI assistants talk about a brand",
	Long: "check asks the configured AI platforms buyer-journey questions about a brand, scores how visible " +
		"the brand is in their answers and projects the monthly traffic that visibility is worth.",
	SilenceUsage: true,
	RunE:         runCheck,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
