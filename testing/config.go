package ibctesting

import (
	"time"

	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	"github.com/cosmos/ibc-core/testing/mock"
)

const (
	// DefaultMaxHistorySize is the number of host blocks a MockContext keeps.
	DefaultMaxHistorySize uint64 = 5
	// DefaultBlockTime is the timestamp increment between two host blocks.
	DefaultBlockTime = 3 * time.Second
	// DefaultTrustingPeriod of mock clients created by endpoints.
	DefaultTrustingPeriod = 14 * 24 * time.Hour
	// DefaultDelayPeriod of connections created by endpoints.
	DefaultDelayPeriod uint64 = 0

	// MockPort is the port bound to the mock application on every test chain.
	MockPort = mock.PortID

	// DefaultChannelVersion is the application version of mock channels.
	DefaultChannelVersion = mock.Version

	// InvalidID is an identifier that is well formed but never allocated.
	InvalidID = "IDisInvalid"
)

var (
	// ConnectionVersion is the default connection version of the core.
	ConnectionVersion = connectiontypes.GetCompatibleVersions()[0]

	// GenesisTime is the timestamp of the first host block of every MockContext.
	GenesisTime = time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	// MockPacketData and its failing counterpart, as understood by the mock application.
	MockPacketData     = mock.MockPacketData
	MockFailPacketData = mock.MockFailPacketData
)

// ClientConfig selects the light client an endpoint creates for its counterparty.
type ClientConfig interface {
	GetClientType() string
}

// MockClientConfig configures a 00-mock light client.
type MockClientConfig struct {
	TrustingPeriod time.Duration
}

// NewMockClientConfig returns the default mock client configuration.
func NewMockClientConfig() *MockClientConfig {
	return &MockClientConfig{
		TrustingPeriod: DefaultTrustingPeriod,
	}
}

// GetClientType implements ClientConfig.
func (*MockClientConfig) GetClientType() string {
	return exported.Mock
}

type ConnectionConfig struct {
	DelayPeriod uint64
	Version     *connectiontypes.Version
}

func NewConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		DelayPeriod: DefaultDelayPeriod,
		Version:     ConnectionVersion,
	}
}

type ChannelConfig struct {
	PortID  string
	Version string
	Order   channeltypes.Order
}

func NewChannelConfig() *ChannelConfig {
	return &ChannelConfig{
		PortID:  MockPort,
		Version: DefaultChannelVersion,
		Order:   channeltypes.UNORDERED,
	}
}
