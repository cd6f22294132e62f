package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/ppiankov/fevercs/internal/cache"
	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/pipeline"
	"github.com/ppiankov/fevercs/internal/translate"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// translateCmd represents the translate command
var translateCmd = &cobra.Command{
	Use:   "translate <input> <source> <target> <output>",
	Short: "Machine-translate the claims of a dataset",
	Long: `Translate replaces the claim of every data point with its machine translation
and keeps the original under claim_<source>. Batches are cached, so an interrupted
run resumes without paying for finished batches again.

API keys are read from translate.api_key or the provider's environment variable
(GOOGLE_TRANSLATE_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY).

Example:
  fevercs translate cs.jsonl en cs cs.translated.jsonl
  fevercs translate cs.jsonl en cs out.jsonl --translator openai --translate-model gpt-4o-mini`,
	Args: withUsage(cobra.ExactArgs(4)),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
	addTranslatorFlags(translateCmd.Flags())
	translateCmd.Flags().String("cache-dir", "cache", "directory for cached API responses")
	translateCmd.Flags().Bool("no-cache", false, "disable the response cache")
}

// addTranslatorFlags registers the flags shared by every command that translates
func addTranslatorFlags(flags *pflag.FlagSet) {
	flags.String("translator", "google", "translation provider (google, openai, gemini, anthropic, ollama)")
	flags.String("translate-model", "", "model name for LLM providers")
	flags.Int("translate-batch-size", translate.DefaultBatchSize, "claims per translation request")
}

var translatorFlagKeys = map[string]string{
	"translator":           "translate.provider",
	"translate-model":      "translate.model",
	"translate-batch-size": "translate.batch_size",
}

// newBatcher builds the configured translator, filling the API key from the environment
func newBatcher(ctx context.Context, cfg *model.Config, store cache.Cache, logger zerolog.Logger) (*translate.Batcher, error) {
	tc := translate.ConfigFromModel(cfg.Translate, cfg.HTTP)

	if tc.APIKey == "" {
		if env := translate.APIKeyEnv(tc.Provider); env != "" {
			tc.APIKey = os.Getenv(env)
			if tc.APIKey == "" {
				return nil, fmt.Errorf("%s environment variable not set", env)
			}
		}
	}
	if tc.BaseURL == "" && strings.EqualFold(tc.Provider, "ollama") {
		tc.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	tr, err := translate.NewTranslator(ctx, tc)
	if err != nil {
		return nil, err
	}
	return translate.NewBatcher(tr, store, cfg.Translate.BatchSize, logger), nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	input, source, target, output := args[0], args[1], args[2], args[3]

	if err := bindFlags(cmd.Flags(), translatorFlagKeys); err != nil {
		return err
	}
	if err := bindFlags(cmd.Flags(), map[string]string{"cache-dir": "cache.dir"}); err != nil {
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
	batcher, err := newBatcher(ctx, cfg, pipeline.NewStore(cfg.Cache), logger)
	if err != nil {
		return fmt.Errorf("translator: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Translating: %s (%s → %s)\n", input, source, target)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.Translate.Provider)
		fmt.Fprintln(os.Stderr)
	}

	stats, err := pipeline.NewTranslateJob(batcher, source, target, logger).Run(ctx, input, output)
	if err != nil {
		return fmt.Errorf("translate failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Translated %d claims in %d batches (%d from cache) with %s\n", stats.Claims, stats.Batches, stats.CacheHits, stats.Provider)
	fmt.Fprintf(os.Stderr, "✓ Wrote: %s\n", output)
	return nil
}
