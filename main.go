package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/seo-optimizer/content-analyzer/analyzer"
	"github.com/seo-optimizer/content-analyzer/config"
	"github.com/seo-optimizer/content-analyzer/llm"
	"github.com/seo-optimizer/content-analyzer/logging"
	"github.com/seo-optimizer/content-analyzer/stats"
)

var version = "dev"

var (
	configPath string
	appConfig  = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "content-analyzer",
	Short: "Analyze text content for SEO quality",
	Long: `Scores pasted text or HTML for search readiness: readability, heading
and paragraph structure, keywords, meta tags, a search result preview and a
prioritized list of recommendations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		appConfig = cfg
		logging.Init(cfg.Logging.Level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.CONFIG_FILE, "path to the YAML config file")
}

// newAnalyzer wires the analyzer with monthly statistics in dataDir and, unless
// offline, the Gemini stages. It reports whether the model stages are active.
func newAnalyzer(ctx context.Context, cfg config.AppConfig, dataDir string, offline bool) (*analyzer.Analyzer, bool, error) {
	a := analyzer.New(cfg.Analyzer.Options())

	storage, err := stats.NewStorage(dataDir)
	if err != nil {
		return nil, false, err
	}
	a.SetStats(storage)

	if offline {
		return a, false, nil
	}
	client, err := llm.NewClient(ctx, llm.Config{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		MaxInputChars:     cfg.Gemini.MaxInputChars,
		RequestsPerDay:    cfg.Gemini.RequestsPerDay,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
	})
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logging.Log.Info("GEMINI_API_KEY not set, using local sentiment and keywords")
		return a, false, nil
	case err != nil:
		logging.Log.Warnf("could not create Gemini client, using local stages: %v", err)
		return a, false, nil
	}

	a.SetClassifier(client)
	a.SetKeywordEnhancer(client)
	logging.Log.Infof("Gemini stages enabled with model %s", client.Model())
	return a, true, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
