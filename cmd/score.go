package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/money-gurus/guru-server/internal/model"
)

var scoreFlags model.Portfolio

// scoreCmd evaluates one month of figures from the terminal, useful for
// checking model chains and prompt changes without the HTTP layer.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Evaluate a Guru Score for one month of figures",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.OpenRouter.Key == "" {
			return eris.New("no OpenRouter API key configured")
		}

		adv, err := buildAdvisor()
		if err != nil {
			return err
		}

		payload, err := adv.EvaluateScore(cmd.Context(), scoreFlags)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(payload), "encode result")
	},
}

func init() {
	scoreCmd.Flags().Float64Var(&scoreFlags.Income, "income", 0, "monthly income")
	scoreCmd.Flags().Float64Var(&scoreFlags.Recurring, "recurring", 0, "recurring expenses")
	scoreCmd.Flags().Float64Var(&scoreFlags.Leisure, "leisure", 0, "leisure spending")
	scoreCmd.Flags().Float64Var(&scoreFlags.Savings, "savings", 0, "savings")
	scoreCmd.Flags().Float64Var(&scoreFlags.Emergency, "emergency", 0, "emergency fund")
	scoreCmd.Flags().Float64Var(&scoreFlags.Investment, "investment", 0, "investments")
	rootCmd.AddCommand(scoreCmd)
}
