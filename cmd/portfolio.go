package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ownership-cli/internal/enrich"
	"github.com/sells-group/ownership-cli/internal/model"
)

var (
	portfolioBorough int
	portfolioBlock   int
	portfolioLot     int
	portfolioOwner   string
	portfolioTopN    int
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Resolve a parcel, then discover its owners' other holdings",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv()
		if err != nil {
			return err
		}

		resolved, err := e.orchestrator.Resolve(cmd.Context(), enrich.Request{
			Parcel: model.Parcel{
				Borough: portfolioBorough,
				Block:   portfolioBlock,
				Lot:     portfolioLot,
			},
			TaxOwnerName: portfolioOwner,
		})
		if err != nil {
			return err
		}

		top := resolved.Candidates
		if len(top) > portfolioTopN {
			top = top[:portfolioTopN]
		}
		zap.L().Info("resolved parcel, discovering portfolio",
			zap.Int("candidates", len(resolved.Candidates)),
			zap.Int("searching", len(top)),
		)

		result, err := e.discoverer.Discover(cmd.Context(), top)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	portfolioCmd.Flags().IntVar(&portfolioBorough, "borough", 0, "borough code (1-5)")
	portfolioCmd.Flags().IntVar(&portfolioBlock, "block", 0, "tax block")
	portfolioCmd.Flags().IntVar(&portfolioLot, "lot", 0, "tax lot")
	portfolioCmd.Flags().StringVar(&portfolioOwner, "owner", "", "known tax-record owner name")
	portfolioCmd.Flags().IntVar(&portfolioTopN, "top", 5, "candidates to search")
	_ = portfolioCmd.MarkFlagRequired("borough")
	_ = portfolioCmd.MarkFlagRequired("block")
	_ = portfolioCmd.MarkFlagRequired("lot")
	rootCmd.AddCommand(portfolioCmd)
}
