package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	ibctesting "github.com/cosmos/ibc-core/testing"
)

const (
	envPrefix = "IBCSIM"

	flagConfig         = "config"
	flagChainA         = "chain-a"
	flagChainB         = "chain-b"
	flagBlockTime      = "block-time"
	flagMaxHistorySize = "max-history-size"
	flagPackets        = "packets"
	flagOrdering       = "ordering"
	flagLogLevel       = "log-level"
)

// Config is the configuration of a simulation run.
type Config struct {
	ChainA         string        `mapstructure:"chain-a"`
	ChainB         string        `mapstructure:"chain-b"`
	BlockTime      time.Duration `mapstructure:"block-time"`
	MaxHistorySize uint64        `mapstructure:"max-history-size"`
	Packets        uint64        `mapstructure:"packets"`
	Ordering       string        `mapstructure:"ordering"`
	LogLevel       string        `mapstructure:"log-level"`
}

// DefaultConfig returns the configuration used when neither flags, environment
// nor config file override a value.
func DefaultConfig() Config {
	return Config{
		ChainA:         ibctesting.GetChainID(1),
		ChainB:         ibctesting.GetChainID(2),
		BlockTime:      ibctesting.DefaultBlockTime,
		MaxHistorySize: ibctesting.DefaultMaxHistorySize,
		Packets:        3,
		Ordering:       "unordered",
		LogLevel:       zerolog.InfoLevel.String(),
	}
}

// ParseConfig reads the configuration from viper and validates it.
func ParseConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.ValidateBasic(); err != nil {
		return Config{}, fmt.Errorf("error in config: %w", err)
	}
	return cfg, nil
}

// ValidateBasic performs stateless checks of the configuration.
func (cfg Config) ValidateBasic() error {
	if strings.TrimSpace(cfg.ChainA) == "" || strings.TrimSpace(cfg.ChainB) == "" {
		return fmt.Errorf("chain ids cannot be blank")
	}
	if cfg.ChainA == cfg.ChainB {
		return fmt.Errorf("chain ids must differ, got %s twice", cfg.ChainA)
	}
	if cfg.BlockTime <= 0 {
		return fmt.Errorf("block time must be positive, got %s", cfg.BlockTime)
	}
	if cfg.MaxHistorySize == 0 {
		return fmt.Errorf("max history size must be positive")
	}
	if _, err := cfg.Order(); err != nil {
		return err
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}
	return nil
}

// Order returns the channel ordering of the configuration.
func (cfg Config) Order() (channeltypes.Order, error) {
	switch strings.ToLower(cfg.Ordering) {
	case "ordered":
		return channeltypes.ORDERED, nil
	case "unordered":
		return channeltypes.UNORDERED, nil
	default:
		return channeltypes.NONE, fmt.Errorf("invalid channel ordering %q, expected ordered or unordered", cfg.Ordering)
	}
}

// Level returns the log level of the configuration.
func (cfg Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
}
