package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/degreeaudit/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "degreeaudit",
	Short: "Track your degree audit from the command line.",
	Long: `degreeaudit imports a DegreeWorks audit, works out which courses are complete,
in progress, ready to take or blocked on prerequisites, and keeps your own
edits (renames, hidden rows, manual states) across re-imports.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.degreeaudit.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("dbpath", "", "Path to the SQLite account store (default is $HOME/.config/degreeaudit/degreeaudit.sqlite)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to the JSON course catalog")

	viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("dbpath"))
	viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Set default values for all keys
	viper.SetDefault("db.path", "")
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("audit.url", "")
	viper.SetDefault("audit.cookie", "")
	viper.SetDefault("retry.attempts", 10)
	viper.SetDefault("retry.delay", "1s")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".degreeaudit")
		viper.SetConfigType("yaml")
	}

	// DEGREEAUDIT_AUDIT_COOKIE overrides audit.cookie, and so on.
	viper.SetEnvPrefix("degreeaudit")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := filepath.Join(home, ".degreeaudit.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
