package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mailpane/core/internal/database"
	"github.com/spf13/cobra"
)

var seedForce bool

// dbCmd represents the db command group
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
	Long:  `Seed or reset the mail database.`,
}

// dbSeedCmd inserts the sample mailbox
var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample mailbox",
	Long:  `Inserts the sample mailbox when the emails table is empty. Use --force to insert regardless.`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		if seedForce {
			err = database.Seed(db)
		} else {
			err = database.SeedIfEmpty(db)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: seeding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Sample mailbox seeded.")
	},
}

// dbResetCmd drops and recreates all tables
var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all tables, recreate and reseed",
	Long:  `Destroys every stored email, attachment and log entry, then recreates the schema and inserts the sample mailbox.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print("This deletes all stored mail. Type 'yes' to continue: ")
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read input: %v\n", err)
			os.Exit(1)
		}
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Aborted.")
			return
		}

		if err := database.Reset(db); err != nil {
			fmt.Fprintf(os.Stderr, "Error: reset failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Database reset and reseeded.")
	},
}

func init() {
	dbSeedCmd.Flags().BoolVar(&seedForce, "force", false, "seed even when emails already exist")
	dbCmd.AddCommand(dbSeedCmd)
	dbCmd.AddCommand(dbResetCmd)
}
