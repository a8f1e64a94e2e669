package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/containerpak/cpakstore/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the document cache",
		Long: `Fetched store documents and asset probe results are kept in the backend
chosen with --cache. Caching is off (none) unless configured.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached document and probe result",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.runCacheClear(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the file cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := c.config().cacheDir()
				if err != nil {
					return fmt.Errorf("locate cache directory: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
				return err
			},
		},
	)
	return cmd
}

// clearReport is the --json output of cache clear.
type clearReport struct {
	Mode    string `json:"mode"`
	Cleared int    `json:"cleared"`
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	cfg := c.config()
	if cfg.Cache == cacheNone {
		printInfo("Caching is disabled, nothing to clear")
		return nil
	}

	store, err := newCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s cache: %w", cfg.Cache, err)
	}
	defer store.Close()

	n, supported, err := cache.Clear(ctx, store)
	switch {
	case err != nil:
		return fmt.Errorf("clear %s cache: %w", cfg.Cache, err)
	case !supported:
		printWarning("The %s cache does not support clearing", cfg.Cache)
		return nil
	}
	loggerFromContext(ctx).Debug("cache cleared", "mode", cfg.Cache, "entries", n)

	if c.jsonOut {
		return writeJSON(stdout, clearReport{Mode: cfg.Cache, Cleared: n})
	}
	printSuccess("Removed %d cached %s", n, plural(n, "entry"))
	if fc, ok := store.(*cache.FileCache); ok {
		printFile(fc.Dir())
	}
	return nil
}
