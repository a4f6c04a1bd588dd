package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"policyrag/internal/tui"
)

var tuiMax int

var tuiCmd = &cobra.Command{
	Use:   "tui [files...]",
	Short: "Analyze files and query them interactively",
	Long: `Analyze the given files (or the upload directory when none are given)
and open an interactive console for querying policy statements.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVarP(&tuiMax, "max", "n", 10, "maximum statements per query")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	var summary string
	if len(args) == 0 {
		if err := a.rebuild(ctx); err != nil {
			return err
		}
	} else {
		text, err := a.ingest(ctx, args)
		if err != nil {
			return err
		}
		if a.summarizer != nil {
			summary, _ = a.summarizer.Summarize(text, cfg.Summarizer.MaxSentences)
		}
	}

	m := tui.New(a.analyzer, summary, tuiMax)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout())).Run()
	return err
}
