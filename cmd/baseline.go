package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theopenlane/echoaudit/internal/baseline"
)

// baselineCmd groups the baseline inspection and seeding commands
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "inspect or seed stored policy baselines",
}

// baselineGetCmd prints the stored baseline for a site
var baselineGetCmd = &cobra.Command{
	Use:   "get <site>",
	Short: "print the stored baseline for a site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return baselineGet(cmd.Context(), args[0])
	},
}

// baselineSetCmd stores a baseline for a site from a file or stdin
var baselineSetCmd = &cobra.Command{
	Use:   "set <site> [file]",
	Short: "store the baseline for a site from a file or stdin",
	Args:  cobra.RangeArgs(1, 2), //nolint:mnd
	RunE: func(cmd *cobra.Command, args []string) error {
		var input io.Reader = cmd.InOrStdin()

		if len(args) == 2 { //nolint:mnd
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening baseline file: %w", err)
			}
			defer f.Close() //nolint:errcheck // read-only file

			input = f
		}

		return baselineSet(cmd.Context(), args[0], input)
	},
}

// init registers the baseline commands on the root command
func init() {
	rootCmd.AddCommand(baselineCmd)
	baselineCmd.AddCommand(baselineGetCmd, baselineSetCmd)
}

// baselineGet writes the stored record, or the catalog entry, for a site to stdout
func baselineGet(ctx context.Context, raw string) error {
	siteID, err := siteArg(raw)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := setupStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck // nothing written

	if record, err := store.Record(ctx, siteID); err == nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(record)
	}

	text, ok := store.Load(ctx, siteID)
	if !ok {
		return fmt.Errorf("%w: %s", baseline.ErrNotFound, siteID)
	}

	_, err = fmt.Fprintln(os.Stdout, text)

	return err
}

// baselineSet stores the text read from input as the baseline for a site
func baselineSet(ctx context.Context, raw string, input io.Reader) error {
	siteID, err := siteArg(raw)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("reading baseline: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return ErrEmptyBaseline
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := setupStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck // save error is reported below

	if err := store.Save(ctx, siteID, text); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "stored baseline for %s (%d characters)\n", siteID, len([]rune(text)))

	return nil
}
