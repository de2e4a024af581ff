package cmd

import (
	"fmt"
	"os"

	"github.com/nando-os/ghost-send/eth"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send ether and wait for the receipt",
	Example: `  sendeth send --to 0xAbC... --amount 1 --base 18 --keystore ./key.json --password "$PW"
  sendeth send --to 0xAbC... --amount 500 --mnemonic "word word ..." --index 2
  sendeth send --to 0xAbC... --amount 0.5 --base 18   # node's default account`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireFlags("to", "amount"); err != nil {
			return err
		}
		creds, err := credentialsFromFlags()
		if err != nil {
			return err
		}

		client, logger, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		receipt, err := eth.SendEther(cmd.Context(), viper.GetString("to"), viper.GetString("amount"), eth.SendOptions{
			Credentials: creds,
			Base:        viper.GetInt("base"),
			Client:      client,
			Quiet:       viper.GetBool("quiet"),
			Logger:      logger,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), receipt.TxHash.Hex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().String("to", "", "destination address")
	sendCmd.Flags().String("amount", "", "amount in units of 10^base wei")
	sendCmd.Flags().Int("base", 0, "power of ten the amount is expressed in (18 for ether)")
	sendCmd.Flags().String("key", "", "hex private key")
	sendCmd.Flags().String("keystore", "", "path to a v3 keystore file")
	sendCmd.Flags().String("password", "", "keystore password")
	sendCmd.Flags().String("mnemonic", "", "mnemonic phrase")
	sendCmd.Flags().Uint32("index", 0, "account index on m/44'/60'/0'/0")
	sendCmd.Flags().String("from", "", "node account to send from (default: first node account)")
}

func credentialsFromFlags() (eth.Credentials, error) {
	creds := eth.Credentials{
		Key:           viper.GetString("key"),
		Password:      viper.GetString("password"),
		Mnemonic:      viper.GetString("mnemonic"),
		MnemonicIndex: viper.GetUint32("index"),
		From:          viper.GetString("from"),
	}
	if path := viper.GetString("keystore"); path != "" {
		blob, err := os.ReadFile(path)
		if err != nil {
			return creds, errors.Wrap(err, "failed to read keystore")
		}
		if blob == nil {
			blob = []byte{}
		}
		creds.Keystore = blob
	}
	return creds, nil
}
