package cli

import (
	"fmt"

	"github.com/ppiankov/fevercs/internal/cache"
	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/pipeline"
	"github.com/spf13/cobra"
)

// cacheCmd groups maintenance of the response cache
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the response cache",
	Long: `Manage the cache of MediaWiki link lookups and claim translations.

Cached replies are kept forever unless cache.disk_ttl is set. Use
'fevercs localize --refresh' to re-query the links of one dataset, or
'fevercs cache clear' to drop everything.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached response",
	Args:  withUsage(cobra.NoArgs),
	RunE:  runCacheClear,
}

func init() {
	cacheClearCmd.Flags().String("cache-dir", model.DefaultConfig().Cache.Dir, "directory for cached API responses")
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd.Flags(), map[string]string{"cache-dir": "cache.dir"}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// --no-cache in the config must not stop an explicit clear
	storeCfg := cfg.Cache
	storeCfg.Enabled = true

	entries := cache.NewDiskCache(storeCfg.Dir, 0).Len()
	if err := pipeline.NewStore(storeCfg).Clear(); err != nil {
		return fmt.Errorf("clear cache %s: %w", storeCfg.Dir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d cached responses from %s\n", entries, storeCfg.Dir)
	return nil
}
