package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const appName = "echoaudit"

// k holds the parsed flags of the running command
var k = koanf.New(".")

var rootCmd = &cobra.Command{
	Use:               appName,
	Short:             "terms of service audit service for policy change and risk detection",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

// Execute runs the selected command until it returns or the process is signalled
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if ctx.Err() != nil {
		log.Info().Msg("interrupted, shut down")
	}

	cobra.CheckErr(err)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "./config/.config.yaml", "config file location")
	flags.Bool("debug", false, "debug logging output")
	flags.Bool("pretty", false, "enable pretty (human readable) logging output")
}

// prepare loads the command's flags into k and configures the global logger from them
func prepare(cmd *cobra.Command, _ []string) error {
	if err := k.Load(posflag.Provider(cmd.Flags(), k.Delim(), k), nil); err != nil {
		return err
	}

	configureLogger(os.Stderr, k.Bool("debug"), k.Bool("pretty"))

	return nil
}

// configureLogger sets the global zerolog level and output; reports go to stdout so logs stay on w
func configureLogger(w io.Writer, debug, pretty bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if pretty {
		w = zerolog.ConsoleWriter{Out: w}
	}

	log.Logger = zerolog.New(w).With().Timestamp().Str("app", appName).Logger()
}
