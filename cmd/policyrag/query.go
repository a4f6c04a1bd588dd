package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"policyrag/internal/domain"
)

var queryMax int

var queryCmd = &cobra.Command{
	Use:   "query <text> [files...]",
	Short: "Rank statements for one question and print them as JSON",
	Long: `Analyze the given files (or the upload directory when none are given),
rank the stored statements against text and print {"responses": [...]}.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryMax, "max", "n", 3, "maximum number of statements (default query.default_max_responses)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		if _, err := a.ingest(ctx, args[1:]); err != nil {
			return err
		}
	} else if err := a.rebuild(ctx); err != nil {
		return err
	}

	n := queryMax
	if !cmd.Flags().Changed("max") {
		n = cfg.Query.DefaultMaxResponses
	}
	responses, err := a.analyzer.Query(ctx, args[0], n)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	data, err := json.MarshalIndent(struct {
		Responses []domain.ScoredResponse `json:"responses"`
	}{responses}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
