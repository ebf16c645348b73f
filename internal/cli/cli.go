package cli

import (
	"os"

	"github.com/mailpane/core/internal/config"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	db  *gorm.DB
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mailpane",
	Short: "Mailpane email backend maintenance commands",
	Long: `Mailpane is the backend for a personal email client.

Running the binary without arguments starts the API server. The
subcommands below cover maintenance tasks:

  mailpane db seed       # insert the sample mailbox
  mailpane db reset      # drop all tables, recreate and reseed
  mailpane config show   # print the effective configuration`,
}

// Execute runs the CLI with the provided database and config
func Execute(database *gorm.DB, configuration *config.Config) {
	db = database
	cfg = configuration

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(configCmd)
}
