package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/hay-kot/criterio"
	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func main() {
	if err := setupLogger("info"); err != nil {
		panic(err)
	}

	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	var logLevel string

	return &cli.Command{
		Name:      "agentgraph",
		Usage:     "Wire arithmetic agents to topics and run them",
		UsageText: "agentgraph [global options] command [command options] FILE",
		Description: `agentgraph reads a topology document listing agents and the topics they
subscribe to and publish on. It checks the resulting graph for cycles, runs it
with seed values, and describes it.

Documents may be JSON, YAML, or the three-lines-per-agent text format.`,
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error)",
				Sources:     cli.EnvVars("AGENTGRAPH_LOG_LEVEL"),
				Value:       "info",
				Destination: &logLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, setupLogger(logLevel)
		},
		Commands: []*cli.Command{
			checkCommand(),
			runCommand(),
			describeCommand(),
			schemaCommand(),
		},
	}
}

func setupLogger(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log := zerolog.New(output).Level(parsed).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slogLevel(parsed)}),
	))
	return nil
}

func slogLevel(level zerolog.Level) slog.Level {
	switch {
	case level <= zerolog.TraceLevel:
		return slog.LevelDebug - 4
	case level == zerolog.DebugLevel:
		return slog.LevelDebug
	case level == zerolog.InfoLevel:
		return slog.LevelInfo
	case level == zerolog.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// printError writes err to w, listing validation problems one per line.
func printError(w io.Writer, err error) {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		fmt.Fprintf(w, "%s %v\n", color.RedString("error:"), err)
		return
	}

	fmt.Fprintln(w, color.RedString("invalid topology:"))
	for _, fe := range fieldErrs {
		if fe.Field == "" {
			fmt.Fprintf(w, "  %s %v\n", color.RedString("✗"), fe.Err)
			continue
		}
		fmt.Fprintf(w, "  %s %s: %v\n", color.RedString("✗"), color.YellowString(fe.Field), fe.Err)
	}
}
