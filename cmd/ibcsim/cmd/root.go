package cmd

import (
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd returns the ibcsim command. It connects two simulated chains over
// the mock application and relays packets between them.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	defaults := DefaultConfig()

	cmd := &cobra.Command{
		Use:          "ibcsim",
		Short:        "Simulate an IBC connection between two in-memory chains",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlagsLoadViper(v, cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ParseConfig(v)
			if err != nil {
				return err
			}

			level, err := cfg.Level()
			if err != nil {
				return err
			}
			logger := log.NewLogger(cmd.OutOrStdout(), log.LevelOption(level), log.ColorOption(false)).With("module", "ibcsim")

			summary, err := Run(cfg, logger)
			if err != nil {
				return err
			}

			logger.Info(
				"simulation finished",
				"acknowledged", summary.Acknowledged,
				"timed-out", summary.TimedOut,
				"height-a", summary.HeightA.String(),
				"height-b", summary.HeightB.String(),
			)
			return nil
		},
	}

	cmd.PersistentFlags().String(flagConfig, "", "path to a config file")
	cmd.Flags().String(flagChainA, defaults.ChainA, "chain id of the sending chain")
	cmd.Flags().String(flagChainB, defaults.ChainB, "chain id of the receiving chain")
	cmd.Flags().Duration(flagBlockTime, defaults.BlockTime, "time between two blocks of a chain")
	cmd.Flags().Uint64(flagMaxHistorySize, defaults.MaxHistorySize, "number of recent blocks a chain can introspect")
	cmd.Flags().Uint64(flagPackets, defaults.Packets, "number of packets relayed from chain a to chain b")
	cmd.Flags().String(flagOrdering, defaults.Ordering, "channel ordering (ordered|unordered)")
	cmd.Flags().String(flagLogLevel, defaults.LogLevel, "log level")

	return cmd
}

// bindFlagsLoadViper binds the flags of the command, the IBCSIM_ environment
// and the optional config file into v.
func bindFlagsLoadViper(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path := v.GetString(flagConfig)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v.SetConfigFile(path)
	return v.ReadInConfig()
}
