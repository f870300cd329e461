package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seo-optimizer/content-analyzer/analyzer"
)

var (
	analyzeTitle       string
	analyzeDescription string
	analyzeURL         string
	analyzeOffline     bool
	analyzeCompact     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a text or HTML file",
	Long: `Analyzes the content of file and prints the report as JSON.
Reads standard input when file is omitted or "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "", "meta title to evaluate instead of deriving one")
	analyzeCmd.Flags().StringVar(&analyzeDescription, "description", "", "meta description to evaluate instead of deriving one")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "page URL shown in the search preview")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "skip the Gemini stages even when an API key is set")
	analyzeCmd.Flags().BoolVar(&analyzeCompact, "compact", false, "print the report on a single line")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	req := analyzer.Request{Text: text, URL: analyzeURL}
	if analyzeTitle != "" || analyzeDescription != "" {
		req.MetaTags = &analyzer.MetaTags{
			Title:       analyzeTitle,
			Description: analyzeDescription,
		}
	}

	a, _, err := newAnalyzer(cmd.Context(), appConfig, "", analyzeOffline)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	report := a.Analyze(cmd.Context(), req)

	var data []byte
	if analyzeCompact {
		data, err = json.Marshal(report)
	} else {
		data, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}
