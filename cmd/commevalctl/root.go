package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("COMMEVALCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	var configFile string
	root := &cobra.Command{
		Use:   "commevalctl",
		Short: "Offline AHP weighting and test batch scoring",
		Long: `commevalctl derives dimension weights from a priority ranking and ranks
test batch measurements without a running server.

Flags may also be set through COMMEVALCTL_* environment variables or a
YAML config file passed with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				return nil
			}
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config file: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (yaml)")
	root.PersistentFlags().StringP("format", "f", formatTable, "Output format (table|json)")
	v.BindPFlag("format", root.PersistentFlags().Lookup("format"))

	root.AddCommand(newAHPCmd(v), newScoreCmd(v))
	return root
}

func outputFormat(v *viper.Viper) (string, error) {
	f := strings.ToLower(v.GetString("format"))
	switch f {
	case formatTable, formatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table or json)", f)
}

// parsePriorityFlag reads "RL=1,SC=2,..." into a ranking.
func parsePriorityFlag(s string) (ahp.PriorityRanking, error) {
	raw := make(map[string]int)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, rank, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("priority %q: expected CODE=RANK", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(rank))
		if err != nil {
			return nil, fmt.Errorf("priority %q: rank is not a number", pair)
		}
		raw[code] = n
	}
	return ahp.ParsePriorities(raw)
}
