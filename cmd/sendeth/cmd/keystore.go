package cmd

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/nando-os/ghost-send/eth"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var keystoreCmd = &cobra.Command{
	Use:   "keystore",
	Short: "Encrypt a private key into a v3 keystore",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireFlags("key"); err != nil {
			return err
		}
		sender, err := eth.ResolveSender(cmd.Context(), eth.Credentials{Key: viper.GetString("key")}, nil)
		if err != nil {
			return err
		}

		scryptN, scryptP := eth.StandardScryptN, eth.StandardScryptP
		if viper.GetBool("light") {
			scryptN, scryptP = eth.LightScryptN, eth.LightScryptP
		}
		blob, err := eth.EncryptKeystore(sender.PrivateKey, viper.GetString("password"), scryptN, scryptP)
		if err != nil {
			return err
		}

		out := viper.GetString("out")
		if out == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(blob))
			return nil
		}
		if err := os.WriteFile(out, blob, 0o600); err != nil {
			return errors.Wrap(err, "failed to write keystore")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s written for %s\n", out, crypto.PubkeyToAddress(sender.PrivateKey.PublicKey).Hex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keystoreCmd)
	keystoreCmd.Flags().String("key", "", "hex private key")
	keystoreCmd.Flags().String("password", "", "keystore password")
	keystoreCmd.Flags().String("out", "", "output file (default stdout)")
	keystoreCmd.Flags().Bool("light", false, "use light scrypt parameters")
}
