package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/xinjiayu/rxcore"
)

const envPrefix = "RXPLAY"

var rootCmd = &cobra.Command{
	Use:   "rxplay [example...]",
	Short: "replay the transforming operator examples",
	Long: `rxplay prints the output of the transforming operator examples:
map, flatMap, flatMapLatest and scan. Without arguments every example runs.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute 运行根命令，失败时记录错误并退出
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("rxplay failed")
	}
}

func init() {
	addFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().Bool("list", false, "list the available examples and exit")
	_ = viper.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(listCmd)

	cobra.OnInitialize(initConfig)
}

func addFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "warn", "log level of the reactive core (debug, info, warn, error)")
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// setupLogging points both the global zerolog logger and the core at stderr.
func setupLogging() error {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
	log.Logger = logger
	rxcore.Configure(rxcore.WithLogger(logger))
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("list"); list {
		return listExamples(cmd, args)
	}
	if err := setupLogging(); err != nil {
		return err
	}

	selected, err := selectExamples(args)
	if err != nil {
		return err
	}
	for _, e := range selected {
		log.Debug().Str("example", e.name).Msg("running example")
		if err := runExample(cmd.OutOrStdout(), e); err != nil {
			return fmt.Errorf("example %s: %w", e.name, err)
		}
	}
	return nil
}

// selectExamples resolves names case-insensitively; no names, or "all",
// selects every example.
func selectExamples(names []string) ([]example, error) {
	if len(names) == 0 || (len(names) == 1 && strings.EqualFold(names[0], "all")) {
		return examples, nil
	}
	selected := make([]example, 0, len(names))
	for _, name := range names {
		e, ok := findExample(canonicalName(name))
		if !ok {
			return nil, fmt.Errorf("unknown example %q", name)
		}
		selected = append(selected, e)
	}
	return selected, nil
}

func canonicalName(name string) string {
	for _, e := range examples {
		if strings.EqualFold(e.name, name) {
			return e.name
		}
	}
	return name
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list the available examples",
	Args:  cobra.NoArgs,
	RunE:  listExamples,
}

func listExamples(cmd *cobra.Command, _ []string) error {
	for _, e := range examples {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", e.name, e.description); err != nil {
			return err
		}
	}
	return nil
}
