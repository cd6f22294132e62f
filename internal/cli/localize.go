package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/pipeline"
	"github.com/spf13/cobra"
)

// localizeCmd represents the localize command
var localizeCmd = &cobra.Command{
	Use:   "localize <input> [source] [target]",
	Short: "Localize dataset evidence into another Wikipedia language edition",
	Long: `Localize reads a JSON-Lines dataset and:
- Collects every evidence page title and decodes its escaped form
- Looks up the target-language title through MediaWiki cross-language links
- Keeps the evidence groups whose every page exists in the target language
- Splits the data points into kept and lost files
- Optionally machine-translates the claims of the kept points

Every API reply is cached, so repeated runs only query new titles.

Example:
  fevercs localize train.jsonl
  fevercs localize train.jsonl en sk --out-dir data/sk
  fevercs localize train.jsonl en cs --translate --translator gemini`,
	Args: withUsage(cobra.RangeArgs(1, 3)),
	RunE: runLocalize,
}

func init() {
	rootCmd.AddCommand(localizeCmd)

	defaults := model.DefaultConfig()
	flags := localizeCmd.Flags()

	// Output flags
	flags.String("out-dir", defaults.Output.Dir, "directory for kept, lost and mapping files")
	flags.String("dump-responses", "", "also write every raw API reply to this file (relative to --out-dir)")

	// Lookup flags
	flags.Int("batch-size", defaults.Wiki.BatchSize, "titles per API request (max 50)")
	flags.String("api-url", defaults.Wiki.APIURL, "MediaWiki API endpoint, {lang} is the source language")
	flags.String("ua", defaults.Wiki.UserAgent, "HTTP User-Agent")
	flags.Duration("timeout", defaults.Wiki.Timeout, "per-request timeout")
	flags.Float64("rps", defaults.Wiki.RequestsPerSecond, "max API requests per second (0 = unlimited)")

	// Cache flags
	flags.String("cache-dir", defaults.Cache.Dir, "directory for cached API responses")
	flags.Bool("no-cache", false, "disable the response cache")
	flags.Bool("refresh", false, "discard cached link lookups and query the API again")

	// Translation flags
	flags.Bool("translate", false, "machine-translate the claims of kept data points")
	addTranslatorFlags(flags)
}

func runLocalize(cmd *cobra.Command, args []string) error {
	input := args[0]
	source, target := "en", "cs"
	if len(args) > 1 {
		source = args[1]
	}
	if len(args) > 2 {
		target = args[2]
	}
	if source == target {
		return fmt.Errorf("source and target language are both %q", source)
	}

	keys := map[string]string{
		"out-dir":        "output.dir",
		"dump-responses": "output.responses",
		"batch-size":     "wiki.batch_size",
		"api-url":        "wiki.api_url",
		"ua":             "wiki.user_agent",
		"timeout":        "wiki.timeout",
		"rps":            "wiki.requests_per_second",
		"cache-dir":      "cache.dir",
		"refresh":        "cache.refresh",
	}
	for name, key := range translatorFlagKeys {
		keys[name] = key
	}
	if err := bindFlags(cmd.Flags(), keys); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger()
	localizer := pipeline.NewLocalizer(cfg, source, target, logger)

	if doTranslate, _ := cmd.Flags().GetBool("translate"); doTranslate {
		batcher, err := newBatcher(ctx, cfg, localizer.Store(), logger)
		if err != nil {
			return fmt.Errorf("translator: %w", err)
		}
		localizer.WithTranslator(batcher)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Localizing: %s (%s → %s)\n", input, source, target)
		fmt.Fprintf(os.Stderr, "API: %s\n", cfg.Wiki.APIURL)
		fmt.Fprintf(os.Stderr, "Cache: %v (%s, refresh %v)\n", cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.Refresh)
		fmt.Fprintln(os.Stderr)
	}

	report, err := localizer.Run(ctx, input)
	if err != nil {
		return fmt.Errorf("localize failed: %w", err)
	}

	renderLocalizeSummary(report)
	return nil
}

func renderLocalizeSummary(r *model.LocalizationReport) {
	res, loc := r.Resolve, r.Localization

	fmt.Fprintf(os.Stderr, "✓ Resolved %d/%d titles (%d lost, %d anomalies)\n", res.Resolved, res.Titles, res.Lost, res.Anomalies)
	fmt.Fprintf(os.Stderr, "✓ %d batches: %d from cache, %d live", res.Batches, res.CacheHits, res.LiveLookups)
	if res.CacheErrors > 0 {
		fmt.Fprintf(os.Stderr, ", %d not cached", res.CacheErrors)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "✓ Kept %d/%d data points (%d not verifiable), lost %d\n", loc.Kept, loc.Points, loc.NotVerifiable, loc.Lost)
	fmt.Fprintf(os.Stderr, "✓ Evidence groups: %d kept, %d dropped\n", loc.GroupsKept, loc.GroupsDropped)
	if t := r.Translation; t != nil {
		fmt.Fprintf(os.Stderr, "✓ Translated %d claims with %s (%d/%d batches from cache)\n", t.Claims, t.Provider, t.CacheHits, t.Batches)
	}

	names := make([]string, 0, len(r.Outputs))
	for name := range r.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s: %s\n", name, r.Outputs[name])
	}
	fmt.Fprintf(os.Stderr, "Done in %s\n", r.Duration.Round(time.Millisecond))
}
