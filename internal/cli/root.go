package cli

import (
	"log"

	"github.com/drewdunne/recap/internal/version"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "recap",
	Short: "Recap - merged pull request summaries for your repository",
	Long: `Recap collects the pull requests merged into a repository over the last
day or week, optionally generates a one-line AI summary for each, and
renders the result as Markdown or an RTF document. It can also post the
recap to a Slack channel or user as a threaded message.

Example:
  recap --range weekly --format markdown --output --slack-user "#eng-updates"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRecap,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(loadEnv)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is recap.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to .env file (optional)")

	rootCmd.Flags().String("format", "markdown", "output format (markdown or rtf)")
	rootCmd.Flags().String("range", "daily", "lookback range (daily or weekly)")
	rootCmd.Flags().String("output", "", "write the recap to a file (pass without a value for ./recaps/<date>.<ext>)")
	rootCmd.Flags().String("slack-user", "", "Slack target: @user, user, or #channel")

	// --output with no value falls back to the dated default path.
	rootCmd.Flags().Lookup("output").NoOptDefVal = defaultOutput

	_ = viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("range", rootCmd.Flags().Lookup("range"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("slack_user", rootCmd.Flags().Lookup("slack-user"))

	viper.SetEnvPrefix("RECAP")
	viper.AutomaticEnv()
}

// loadEnv loads .env files before anything reads the environment.
func loadEnv() {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("Warning: could not load env file %s: %v", envFile, err)
		}
		return
	}
	// Try default locations
	godotenv.Load(".env")
}
