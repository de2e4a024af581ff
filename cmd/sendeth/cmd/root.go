package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nando-os/ghost-send/eth"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "SENDETH"

var rootCmd = &cobra.Command{
	Use:   "sendeth",
	Short: "Send ether from a key, keystore, mnemonic or node account",
	Long: `sendeth transfers native currency to an address over an Ethereum JSON-RPC
endpoint and waits for the transaction to be mined.

Connection and fee settings come from ETH_* environment variables (or .env);
every flag can also be set as SENDETH_<FLAG>, e.g. SENDETH_PASSWORD.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return viper.BindPFlags(cmd.Flags())
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if kind := eth.KindOf(err); kind != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", kind, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("rpc", "", "JSON-RPC endpoint (default $ETH_RPC_URL or "+eth.DEFAULT_RPC_URL+")")
	rootCmd.PersistentFlags().Int64("chain-id", 0, "expected chain ID, 0 accepts any (default $ETH_CHAIN_ID)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress progress output")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")
}

func newLogger() (*logrus.Logger, error) {
	logger := eth.NewLogger(viper.GetBool("quiet"))
	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)
	if viper.GetBool("log-json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

func newConfig() (eth.Config, error) {
	var opts []eth.ConfigOption
	if url := viper.GetString("rpc"); url != "" {
		opts = append(opts, eth.WithRPCURL(url))
	}
	if id := viper.GetInt64("chain-id"); id != 0 {
		opts = append(opts, eth.WithChainID(id))
	}
	return eth.NewConfiguration(opts...)
}

func dial(ctx context.Context) (eth.GhostClient, *logrus.Logger, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := newConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := eth.NewGhostClient(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}

// requireFlags checks flags after viper binding so SENDETH_* variables count.
func requireFlags(names ...string) error {
	var missing []string
	for _, name := range names {
		if strings.TrimSpace(viper.GetString(name)) == "" {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required flag(s) %s not set (or %s_* variable)", strings.Join(missing, ", "), envPrefix)
	}
	return nil
}
