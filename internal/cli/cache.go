package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/cache"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/httputil"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached artifacts and fetched images",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(cmd.Context(), c.cacheSpec, "")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			count, err := cache.Clear(cmd.Context(), store)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			images, err := clearImageCache()
			if err != nil {
				return fmt.Errorf("clear image cache: %w", err)
			}
			if count == 0 && images == 0 {
				printInfo("Cache is empty")
				return nil
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Backend: %s", describeBackend(c.cacheSpec))
			if images > 0 {
				printDetail("Images: %d from %s", images, imageCacheDir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cache.DefaultDir())
			return nil
		},
	}
}

// clearImageCache empties the fetched-image cache, if it exists.
func clearImageCache() (int, error) {
	hc, err := httputil.NewCache(imageCacheDir(), imageCacheTTL)
	if err != nil {
		return 0, err
	}
	return hc.Clear()
}

// describeBackend names the backend for display without leaking credentials.
func describeBackend(spec string) string {
	switch {
	case spec == "" || spec == "file":
		return cache.DefaultDir()
	case strings.Contains(spec, "://"):
		scheme, _, _ := strings.Cut(spec, "://")
		return scheme
	default:
		return spec
	}
}
