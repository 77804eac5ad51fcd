package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
)

func newAHPCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ahp",
		Short: "Derive dimension weights from a priority ranking",
		Example: `  commevalctl ahp --priorities RL=1,SC=2,AJ=3,EF=4,PO=5,NC=6,HO=7,RS=8
  commevalctl ahp --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(v)
			if err != nil {
				return err
			}
			ranking := ahp.NaturalRanking()
			if p := v.GetString("ahp.priorities"); p != "" {
				if ranking, err = parsePriorityFlag(p); err != nil {
					return err
				}
			}
			res, err := ahp.Calculate(ranking)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			renderWeights(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringP("priorities", "p", "", "Ranking as CODE=RANK pairs (default: natural order)")
	v.BindPFlag("ahp.priorities", cmd.Flags().Lookup("priorities"))
	return cmd
}

func renderWeights(w io.Writer, res *ahp.WeightResult) {
	st := newStyles()

	fmt.Fprintln(w, st.header.Render("Judgment matrix"))
	var b strings.Builder
	b.WriteString("      ")
	for _, code := range res.Dimensions {
		fmt.Fprintf(&b, "%8s", code)
	}
	fmt.Fprintln(w, st.dim.Render(b.String()))
	for i, row := range res.Matrix {
		b.Reset()
		fmt.Fprintf(&b, "%-6s", res.Dimensions[i])
		for _, a := range row {
			fmt.Fprintf(&b, "%8.4f", a)
		}
		fmt.Fprintln(w, b.String())
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.header.Render("Weights"))
	for _, code := range res.Dimensions {
		fmt.Fprintf(w, "  %-4s %.6f\n", code, res.Weights[code])
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "lambda_max %.6f  CI %.6f  CR %.6f  ", res.LambdaMax, res.CI, res.CR)
	if res.Consistent {
		fmt.Fprintln(w, st.good.Render("consistent"))
	} else {
		fmt.Fprintln(w, st.bad.Render("inconsistent"))
	}
	if !res.Converged {
		fmt.Fprintln(w, st.warn.Render(fmt.Sprintf("power iteration stopped after %d iterations without converging", res.Iterations)))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
