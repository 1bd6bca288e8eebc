package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/degreeaudit/pkg/storage"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the degreeaudit account store",
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := dbPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", path)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		// Print schema first
		fmt.Println("--> Database schema:")
		schemaCmd := exec.Command(sqlitePath, path, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

// accountsCmd lists stored accounts and marks the current one.
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the stored accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *storage.DB) error {
			names, err := db.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts yet. Run 'degreeaudit import' first.")
				return nil
			}
			current, _ := db.CurrentAccount(cmd.Context())
			for _, name := range names {
				marker := " "
				if name == current {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		})
	},
}

var useCmd = &cobra.Command{
	Use:   "use NAME",
	Short: "Switch the current account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLockedStore(func(db *storage.DB) error {
			return db.SetCurrentAccount(cmd.Context(), args[0])
		})
	},
}

// historyCmd prints recent account saves.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints the most recent account saves",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withStore(func(db *storage.DB) error {
			saves, err := db.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIME\tACCOUNT\tCOURSES\tBYTES")
			for _, s := range saves {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", s.OccurredAt.Local().Format("2006-01-02 15:04:05"), s.Account, s.Courses, s.Bytes)
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(shellCmd, accountsCmd, useCmd, historyCmd)
	historyCmd.Flags().Int("limit", 20, "Number of saves to show")
}
