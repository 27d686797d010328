package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/ownership-cli/internal/enrich"
	"github.com/sells-group/ownership-cli/internal/model"
)

var (
	resolveBorough int
	resolveBlock   int
	resolveLot     int
	resolveOwner   string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the likely owner behind a parcel",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv()
		if err != nil {
			return err
		}

		result, err := e.orchestrator.Resolve(cmd.Context(), enrich.Request{
			Parcel: model.Parcel{
				Borough: resolveBorough,
				Block:   resolveBlock,
				Lot:     resolveLot,
			},
			TaxOwnerName: resolveOwner,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	resolveCmd.Flags().IntVar(&resolveBorough, "borough", 0, "borough code (1-5)")
	resolveCmd.Flags().IntVar(&resolveBlock, "block", 0, "tax block")
	resolveCmd.Flags().IntVar(&resolveLot, "lot", 0, "tax lot")
	resolveCmd.Flags().StringVar(&resolveOwner, "owner", "", "known tax-record owner name")
	_ = resolveCmd.MarkFlagRequired("borough")
	_ = resolveCmd.MarkFlagRequired("block")
	_ = resolveCmd.MarkFlagRequired("lot")
	rootCmd.AddCommand(resolveCmd)
}
