package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// newCacheCmd creates the cache management command.
func newCacheCmd(cfg config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry response cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCacheInfoCmd(cfg))

	return cmd
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached registry responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				logger.Info("Cache is empty")
				return nil
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("read cache dir: %w", err)
			}
			count := 0
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
					count++
				}
			}

			logger.Infof("Cleared %d cached entries from %s", count, dir)
			return nil
		},
	}
}

// newCacheInfoCmd creates the "cache info" subcommand, which prints the
// cache location, entry count, and the TTL cached responses live for.
func newCacheInfoCmd(cfg config) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cache location and contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			count, err := cacheEntryCount(dir)
			if err != nil {
				return fmt.Errorf("read cache dir: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:    %s\n", dir)
			fmt.Fprintf(out, "Entries: %d\n", count)
			fmt.Fprintf(out, "TTL:     %s\n", cfg.cacheTTL())
			return nil
		},
	}
}

// cacheEntryCount counts the cached response files in dir. A missing
// directory counts as an empty cache.
func cacheEntryCount(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			count++
		}
	}
	return count, nil
}
