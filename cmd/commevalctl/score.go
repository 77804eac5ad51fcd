package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/scoring"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

func newScoreCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Rank test batch measurements from a YAML or JSON file",
		Example: `  commevalctl score --file records.yaml
  commevalctl score --file records.yaml --priorities RL=1,SC=2,AJ=3,EF=4,PO=5,NC=6,HO=7,RS=8 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(v)
			if err != nil {
				return err
			}
			path := v.GetString("score.file")
			if path == "" {
				return fmt.Errorf("--file is required")
			}
			records, err := loadRecords(path)
			if err != nil {
				return err
			}

			weights := scoring.DefaultCompositeWeights()
			if p := v.GetString("score.priorities"); p != "" {
				ranking, err := parsePriorityFlag(p)
				if err != nil {
					return err
				}
				res, err := ahp.Calculate(ranking)
				if err != nil {
					return err
				}
				weights = scoring.WeightsFromAHP(res)
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			scorer, err := scoring.NewCompositeScorer(weights, v.GetInt("score.workers"), logger)
			if err != nil {
				return err
			}
			results, err := scorer.Rank(cmd.Context(), records)
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			renderRanking(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().String("file", "", "Measurement records (YAML list; JSON is accepted)")
	cmd.Flags().StringP("priorities", "p", "", "Derive coefficients from this ranking instead of the fixed table")
	cmd.Flags().Int("workers", 0, "Scoring workers (0 = GOMAXPROCS)")
	v.BindPFlag("score.file", cmd.Flags().Lookup("file"))
	v.BindPFlag("score.priorities", cmd.Flags().Lookup("priorities"))
	v.BindPFlag("score.workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func loadRecords(path string) ([]*store.Measurement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var records []*store.Measurement
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	for i, r := range records {
		if r == nil || r.TestID == "" {
			return nil, fmt.Errorf("record %d: test_id is required", i+1)
		}
	}
	return records, nil
}

func renderRanking(w io.Writer, results []scoring.CompositeResult) {
	st := newStyles()
	if len(results) == 0 {
		fmt.Fprintln(w, st.dim.Render("no records"))
		return
	}

	fmt.Fprintln(w, st.header.Render(fmt.Sprintf("%-5s %-12s %8s  %-10s %6s %6s %6s %6s %6s %6s %6s %6s",
		"RANK", "TEST", "TOTAL", "GRADE", "RL", "SC", "AJ", "EF", "PO", "NC", "HO", "RS")))
	for _, r := range results {
		grade := st.grade(r.Grade).Render(fmt.Sprintf("%-10s", r.Grade))
		fmt.Fprintf(w, "%-5d %-12s %8.2f  %s", r.Rank, r.TestID, r.TotalScore, grade)
		for _, s := range r.DimensionScores.Values() {
			fmt.Fprintf(w, " %6.2f", s)
		}
		fmt.Fprintln(w)
	}
}
