package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/wikifreq/internal"
)

// viperKeys maps configuration keys to the flags they override
var viperKeys = map[string]string{
	"output.directory":      "output",
	"output.archive":        "archive",
	"output.db":             "db",
	"log.level":             "log-level",
	"log.format":            "log-format",
	"metrics.addr":          "metrics-addr",
	"corpus.language":       "lang",
	"corpus.endpoint":       "endpoint",
	"corpus.user_agent":     "user-agent",
	"corpus.rate":           "rate",
	"corpus.tokenizer":      "tokenizer",
	"sampler.target_words":  "target-words",
	"sampler.max_documents": "max-documents",
	"sampler.top_n":         "top",
	"sampler.min_words":     "min-words",
	"sampler.delay_min":     "delay-min",
	"sampler.delay_max":     "delay-max",
	"sampler.retries":       "retries",
	"translation.languages": "translate",
	"translation.provider":  "translate-provider",
	"translation.model":     "translate-model",
	"translation.parallel":  "translate-parallel",
	"translation.limit":     "limit",
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wikifreq",
		Short: "Wikipedia word frequency list builder",
		Long: `wikifreq samples random Wikipedia articles and builds a ranked
word frequency list (rank, word, count, frequency per million).

The ranked list can be translated into other languages and appended to a
SQLite database for later comparison.

Examples:
  wikifreq                                  # 2M words from English Wikipedia
  wikifreq --target-words 0 --max-documents 500 --top 1000
  wikifreq --lang fr --translate en,de      # French list with translations
  wikifreq translate wiki_wordfreq_top10000.csv --translate ar,fr --limit 500`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateTranslateCommand creates the "translate" subcommand
func CreateTranslateCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <wordlist>",
		Short: "Translate a ranked CSV or plain word list",
		Long: `translate reads a ranked CSV written by wikifreq, or a text file with
one word per line, and writes a translation table next to it.`,
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().IntVar(&flags.TranslateLimit, "limit", 0, "Translate only the first N words (0 = all)")
	viper.BindPFlag("translation.limit", cmd.Flags().Lookup("limit"))

	return cmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wikifreq.yaml)")
	pf.StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Output directory")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")
	pf.StringVar(&flags.Language, "lang", flags.Language, "Wikipedia language edition and source language of word lists")
	pf.StringVar(&flags.Translate, "translate", "", "Comma separated target languages for translation (e.g. ar,fr,de)")
	pf.StringVar(&flags.TranslateProvider, "translate-provider", flags.TranslateProvider, "Translation provider: openai or gemini")
	pf.StringVar(&flags.TranslateModel, "translate-model", "", "Translation model (provider default when empty)")
	pf.IntVar(&flags.TranslateParallel, "translate-parallel", flags.TranslateParallel, "Languages translated concurrently")

	// Local flags
	f := cmd.Flags()
	f.BoolVar(&flags.Archive, "archive", false, "Move an existing output file to <output>/archive before writing")
	f.StringVar(&flags.DBPath, "db", "", "Append the run to this SQLite database")
	f.BoolVar(&flags.ListModels, "list-models", false, "List OpenAI models usable for translation")
	f.BoolVar(&flags.ListRuns, "list-runs", false, "List the runs stored in the --db database")
	f.BoolVar(&flags.NoProgress, "no-progress", false, "Disable progress output")
	f.StringVar(&flags.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	// Corpus flags
	f.StringVar(&flags.Endpoint, "endpoint", "", "MediaWiki api.php URL (derived from --lang when empty)")
	f.StringVar(&flags.UserAgent, "user-agent", "", "User-Agent sent to the MediaWiki API")
	f.Float64Var(&flags.RequestsPerSecond, "rate", flags.RequestsPerSecond, "Maximum MediaWiki requests per second (0 = unlimited)")
	f.StringVar(&flags.Tokenizer, "tokenizer", flags.Tokenizer, "Tokenizer: english, unicode or auto")

	// Sampler flags
	f.IntVar(&flags.TargetWords, "target-words", flags.TargetWords, "Stop after this many words (0 = no word target)")
	f.IntVar(&flags.MaxDocuments, "max-documents", flags.MaxDocuments, "Maximum number of fetched articles")
	f.IntVar(&flags.TopN, "top", flags.TopN, "Number of ranked words to write")
	f.IntVar(&flags.MinDocumentWords, "min-words", flags.MinDocumentWords, "Skip articles with fewer words")
	f.DurationVar(&flags.DelayMin, "delay-min", flags.DelayMin, "Minimum pause between articles")
	f.DurationVar(&flags.DelayMax, "delay-max", flags.DelayMax, "Maximum pause between articles")
	f.IntVar(&flags.RetryAttempts, "retries", flags.RetryAttempts, "Attempts per request before giving up")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	for key, name := range viperKeys {
		if flag := lookupFlag(cmd, name); flag != nil {
			viper.BindPFlag(key, flag)
		}
	}
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag
	}
	return cmd.PersistentFlags().Lookup(name)
}

// ApplyConfig copies values from the config file and environment into
// flags that were not set on the command line
func ApplyConfig(cmd *cobra.Command) error {
	for key, name := range viperKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || flag.Changed || !viper.IsSet(key) {
			continue
		}
		if err := flag.Value.Set(viper.GetString(key)); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}
	return nil
}

// InitConfig loads .env and initializes viper configuration
func InitConfig(cfgFile string) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".wikifreq" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wikifreq")
	}

	// Environment variables, e.g. WIKIFREQ_SAMPLER_TOP_N
	viper.SetEnvPrefix("WIKIFREQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translation.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("translation.gemini_key")
}

// GetAPIKey returns the key of the named translation provider
func GetAPIKey(provider string) string {
	if strings.EqualFold(provider, "gemini") {
		return GetGeminiKey()
	}
	return GetOpenAIKey()
}
