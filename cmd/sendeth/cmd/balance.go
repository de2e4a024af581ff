package cmd

import (
	"fmt"

	"github.com/nando-os/ghost-send/eth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var balanceCmd = &cobra.Command{
	Use:   "balance ADDRESS",
	Short: "Print the balance of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		wei, err := eth.Balance(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), eth.FromSmallestUnit(wei, viper.GetInt("base")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().Int("base", 0, "print in units of 10^base wei (18 for ether)")
}
