package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sw33tLie/degreeaudit/internal/utils"
	"github.com/sw33tLie/degreeaudit/pkg/audit"
	"github.com/sw33tLie/degreeaudit/pkg/polling"
	"github.com/sw33tLie/degreeaudit/pkg/storage"
	"github.com/sw33tLie/degreeaudit/pkg/whttp"
)

// importCmd implements: degreeaudit import
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a DegreeWorks audit into the account store",
	Long: `Reads an audit from a saved HTML file (--file) or downloads it (--url, or
audit.url in the config) with the session cookie from audit.cookie. Rows
already in the account keep your edits; new rows are added.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		url, _ := cmd.Flags().GetString("url")
		if url == "" {
			url = viper.GetString("audit.url")
		}

		var load audit.Loader
		switch {
		case file != "":
			load = audit.FileLoader(file)
		case url != "":
			f := &audit.Fetcher{
				Client: whttp.NewClient(3),
				Cookie: viper.GetString("audit.cookie"),
			}
			load = f.URLLoader(url)
		default:
			return errors.New("nothing to import: pass --file or --url, or set audit.url")
		}

		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		policy := polling.Policy{
			Attempts: viper.GetInt("retry.attempts"),
			Delay:    viper.GetDuration("retry.delay"),
			Log:      utils.Log,
		}
		page, err := audit.Import(cmd.Context(), load, policy)
		if err != nil {
			return err
		}
		utils.Log.Infof("Audit loaded for %s (%d rows)", page.Student, len(page.Rows))

		return withLockedStore(func(db *storage.DB) error {
			acct, sum, err := audit.Sync(cmd.Context(), db, cat, page)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %s\n", acct.Name(), sum)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("file", "", "Saved audit HTML file")
	importCmd.Flags().String("url", "", "Audit URL (default is audit.url from the config)")
}
