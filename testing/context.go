package ibctesting

import (
	"encoding/binary"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	gogotypes "github.com/gogo/protobuf/types"
	"github.com/vmihailenco/msgpack/v5"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	commitmenttypes "github.com/cosmos/ibc-core/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
	solomachine "github.com/cosmos/ibc-core/modules/light-clients/06-solomachine"
)

var (
	_ coretypes.ExecutionContext = (*MockContext)(nil)
	_ coretypes.QueryContext     = (*MockContext)(nil)
)

// HostBlock is a block of the simulated host chain.
type HostBlock struct {
	Height    clienttypes.Height
	Timestamp uint64
}

// MockContext is an in-memory host chain implementing the execution and query
// contexts of the core. It keeps a bounded history of host blocks and stores
// every protocol record in a tm-db MemDB under its ICS-24 key.
//
// A MockContext is not safe for concurrent message delivery.
type MockContext struct {
	chainID        string
	blockTime      time.Duration
	maxHistorySize uint64
	history        []HostBlock

	store            *Store
	cdc              *clienttypes.Codec
	clientParams     clienttypes.Params
	connectionParams connectiontypes.Params
	prefix           commitmenttypes.MerklePrefix
	logger           log.Logger

	// Events emitted by every executed message, in order.
	Events []coretypes.Event
	// Logs recorded by every executed message, in order.
	Logs []string
}

// Option configures a MockContext.
type Option func(*MockContext)

// BlockTimeOption sets the timestamp increment between host blocks.
func BlockTimeOption(blockTime time.Duration) Option {
	return func(ctx *MockContext) {
		ctx.blockTime = blockTime
	}
}

// LoggerOption sets the logger messages are logged to.
func LoggerOption(logger log.Logger) Option {
	return func(ctx *MockContext) {
		ctx.logger = logger
	}
}

// ClientParamsOption overrides the client parameters of the host.
func ClientParamsOption(params clienttypes.Params) Option {
	return func(ctx *MockContext) {
		ctx.clientParams = params
	}
}

// ConnectionParamsOption overrides the connection parameters of the host.
func ConnectionParamsOption(params connectiontypes.Params) Option {
	return func(ctx *MockContext) {
		ctx.connectionParams = params
	}
}

// NewMockContext returns a host chain whose latest block is at the given
// revision height. The revision number is parsed from the chain id. The
// history is filled with the min(maxHistorySize, latestHeight) most recent
// blocks. It panics if maxHistorySize or latestHeight is zero.
func NewMockContext(chainID string, maxHistorySize, latestHeight uint64, opts ...Option) *MockContext {
	if maxHistorySize == 0 {
		panic("max history size must be positive")
	}
	if latestHeight == 0 {
		panic("latest height must be positive")
	}

	ctx := &MockContext{
		chainID:          chainID,
		blockTime:        DefaultBlockTime,
		maxHistorySize:   maxHistorySize,
		store:            NewStore(),
		cdc:              NewCodec(),
		clientParams:     clienttypes.DefaultParams(),
		connectionParams: connectiontypes.DefaultParams(),
		prefix:           commitmenttypes.NewMerklePrefix(commitmenttypes.DefaultPrefix),
		logger:           log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	ctx.logger = ctx.logger.With("chain-id", chainID)

	revision := clienttypes.ParseChainID(chainID)
	n := min(maxHistorySize, latestHeight)
	ctx.history = make([]HostBlock, 0, maxHistorySize)
	for h := latestHeight - n + 1; h <= latestHeight; h++ {
		ctx.history = append(ctx.history, ctx.newBlock(clienttypes.NewHeight(revision, h)))
	}

	return ctx
}

// NewCodec returns a codec with every light client of the repository registered.
func NewCodec() *clienttypes.Codec {
	cdc := clienttypes.NewCodec()
	ibcmock.RegisterInterfaces(cdc)
	solomachine.RegisterInterfaces(cdc)
	return cdc
}

// newBlock returns the block at the given height. Block timestamps are derived
// from the genesis time so that chains with equal block times stay in sync.
func (ctx *MockContext) newBlock(height clienttypes.Height) HostBlock {
	offset := time.Duration(height.RevisionHeight-1) * ctx.blockTime
	return HostBlock{
		Height:    height,
		Timestamp: uint64(GenesisTime.Add(offset).UnixNano()),
	}
}

// ChainID returns the chain id of the host.
func (ctx *MockContext) ChainID() string {
	return ctx.chainID
}

// Logger returns the logger of the host.
func (ctx *MockContext) Logger() log.Logger {
	return ctx.logger
}

// Store returns the key/value store of the host.
func (ctx *MockContext) Store() *Store {
	return ctx.store
}

// Clone returns a deep copy of the host. The codec and logger are shared.
func (ctx *MockContext) Clone() *MockContext {
	clone := *ctx
	clone.history = append(make([]HostBlock, 0, ctx.maxHistorySize), ctx.history...)
	clone.store = ctx.store.Clone()
	clone.Events = append([]coretypes.Event(nil), ctx.Events...)
	clone.Logs = append([]string(nil), ctx.Logs...)
	return &clone
}

// ClientState implements exported.ClientValidationContext.
func (ctx *MockContext) ClientState(clientID string) (exported.ClientState, error) {
	if clientState, ok := ctx.store.cachedClientState(clientID); ok {
		return clientState, nil
	}

	bz, err := ctx.store.Get(host.FullClientStateKey(clientID))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, errorsmod.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	anyClientState, err := unmarshalAny(bz)
	if err != nil {
		return nil, err
	}

	clientState, err := ctx.cdc.UnpackClientState(anyClientState)
	if err != nil {
		return nil, err
	}

	ctx.store.cacheClientState(clientID, clientState)
	return clientState, nil
}

// StoreClientState implements exported.ClientExecutionContext.
func (ctx *MockContext) StoreClientState(clientID string, clientState exported.ClientState) error {
	anyClientState, err := ctx.cdc.PackClientState(clientState)
	if err != nil {
		return err
	}

	bz, err := marshalAny(anyClientState)
	if err != nil {
		return err
	}

	if err := ctx.store.Set(host.FullClientStateKey(clientID), bz); err != nil {
		return err
	}

	ctx.store.cacheClientState(clientID, clientState)
	return nil
}

// ConsensusState implements exported.ClientValidationContext.
func (ctx *MockContext) ConsensusState(clientID string, height exported.Height) (exported.ConsensusState, error) {
	bz, err := ctx.store.Get(host.FullConsensusStateKey(clientID, height))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, errorsmod.Wrapf(clienttypes.ErrConsensusStateNotFound, "client %s at height %s", clientID, height)
	}

	anyConsensusState, err := unmarshalAny(bz)
	if err != nil {
		return nil, err
	}

	return ctx.cdc.UnpackConsensusState(anyConsensusState)
}

// StoreConsensusState implements exported.ClientExecutionContext.
func (ctx *MockContext) StoreConsensusState(clientID string, height exported.Height, consensusState exported.ConsensusState) error {
	anyConsensusState, err := ctx.cdc.PackConsensusState(consensusState)
	if err != nil {
		return err
	}

	bz, err := marshalAny(anyConsensusState)
	if err != nil {
		return err
	}

	return ctx.store.Set(host.FullConsensusStateKey(clientID, height), bz)
}

// ClientUpdateTime implements exported.ClientValidationContext.
func (ctx *MockContext) ClientUpdateTime(clientID string, height exported.Height) (uint64, error) {
	timestamp, found, err := ctx.getUint64(host.ProcessedTimeKey(clientID, height))
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errorsmod.Wrapf(clienttypes.ErrProcessedTimeNotFound, "client %s at height %s", clientID, height)
	}
	return timestamp, nil
}

// ClientUpdateHeight implements exported.ClientValidationContext.
func (ctx *MockContext) ClientUpdateHeight(clientID string, height exported.Height) (exported.Height, error) {
	bz, err := ctx.store.Get(host.ProcessedHeightKey(clientID, height))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, errorsmod.Wrapf(clienttypes.ErrProcessedHeightNotFound, "client %s at height %s", clientID, height)
	}

	var hostHeight clienttypes.Height
	if err := msgpack.Unmarshal(bz, &hostHeight); err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "cannot decode processed height: %s", err)
	}
	return hostHeight, nil
}

// StoreUpdateTime implements coretypes.ExecutionContext.
func (ctx *MockContext) StoreUpdateTime(clientID string, height exported.Height, timestamp uint64) error {
	return ctx.setUint64(host.ProcessedTimeKey(clientID, height), timestamp)
}

// StoreUpdateHeight implements coretypes.ExecutionContext.
func (ctx *MockContext) StoreUpdateHeight(clientID string, height, hostHeight exported.Height) error {
	bz, err := msgpack.Marshal(clienttypes.MustHeight(hostHeight))
	if err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidType, "cannot encode processed height: %s", err)
	}
	return ctx.store.Set(host.ProcessedHeightKey(clientID, height), bz)
}

// HostHeight implements exported.ClientValidationContext.
func (ctx *MockContext) HostHeight() (exported.Height, error) {
	return ctx.LatestHeight(), nil
}

// HostTimestamp implements exported.ClientValidationContext.
func (ctx *MockContext) HostTimestamp() (uint64, error) {
	return ctx.LatestTimestamp(), nil
}

// Codec implements coretypes.ValidationContext.
func (ctx *MockContext) Codec() *clienttypes.Codec {
	return ctx.cdc
}

// ClientParams implements coretypes.ValidationContext.
func (ctx *MockContext) ClientParams() clienttypes.Params {
	return ctx.clientParams
}

// ClientCounter implements coretypes.ValidationContext.
func (ctx *MockContext) ClientCounter() (uint64, error) {
	return ctx.counter(host.NextClientSequenceKey())
}

// IncreaseClientCounter implements coretypes.ExecutionContext.
func (ctx *MockContext) IncreaseClientCounter() error {
	return ctx.increaseCounter(host.NextClientSequenceKey())
}

// ConnectionEnd implements coretypes.ValidationContext.
func (ctx *MockContext) ConnectionEnd(connectionID string) (connectiontypes.ConnectionEnd, error) {
	bz, err := ctx.store.Get(host.ConnectionKey(connectionID))
	if err != nil {
		return connectiontypes.ConnectionEnd{}, err
	}
	if bz == nil {
		return connectiontypes.ConnectionEnd{}, errorsmod.Wrap(connectiontypes.ErrConnectionNotFound, connectionID)
	}
	return connectiontypes.UnmarshalConnection(bz)
}

// StoreConnection implements coretypes.ExecutionContext.
func (ctx *MockContext) StoreConnection(connectionID string, connection connectiontypes.ConnectionEnd) error {
	return ctx.store.Set(host.ConnectionKey(connectionID), connectiontypes.MustMarshalConnection(connection))
}

// StoreConnectionToClient implements coretypes.ExecutionContext.
func (ctx *MockContext) StoreConnectionToClient(clientID, connectionID string) error {
	var paths []string
	if err := ctx.getMsgpack(host.ClientConnectionsKey(clientID), &paths); err != nil {
		return err
	}

	return ctx.setMsgpack(host.ClientConnectionsKey(clientID), append(paths, connectionID))
}

// ConnectionCounter implements coretypes.ValidationContext.
func (ctx *MockContext) ConnectionCounter() (uint64, error) {
	return ctx.counter(host.NextConnectionSequenceKey())
}

// IncreaseConnectionCounter implements coretypes.ExecutionContext.
func (ctx *MockContext) IncreaseConnectionCounter() error {
	return ctx.increaseCounter(host.NextConnectionSequenceKey())
}

// ConnectionParams implements coretypes.ValidationContext.
func (ctx *MockContext) ConnectionParams() connectiontypes.Params {
	return ctx.connectionParams
}

// GetCompatibleVersions implements coretypes.ValidationContext.
func (*MockContext) GetCompatibleVersions() []*connectiontypes.Version {
	return connectiontypes.GetCompatibleVersions()
}

// CommitmentPrefix implements coretypes.ValidationContext.
func (ctx *MockContext) CommitmentPrefix() commitmenttypes.MerklePrefix {
	return ctx.prefix
}

// channelRef identifies a channel end in the connection to channels index.
type channelRef struct {
	PortID    string `msgpack:"port_id"`
	ChannelID string `msgpack:"channel_id"`
}

// ChannelEnd implements coretypes.ValidationContext.
func (ctx *MockContext) ChannelEnd(portID, channelID string) (channeltypes.Channel, error) {
	bz, err := ctx.store.Get(host.ChannelKey(portID, channelID))
	if err != nil {
		return channeltypes.Channel{}, err
	}
	if bz == nil {
		return channeltypes.Channel{}, errorsmod.Wrapf(channeltypes.ErrChannelNotFound, "port ID (%s) channel ID (%s)", portID, channelID)
	}
	return channeltypes.UnmarshalChannel(bz)
}

// StoreChannel implements coretypes.ExecutionContext. A channel stored for the
// first time is added to the index of its connection.
func (ctx *MockContext) StoreChannel(portID, channelID string, channel channeltypes.Channel) error {
	exists, err := ctx.store.Has(host.ChannelKey(portID, channelID))
	if err != nil {
		return err
	}

	if !exists && len(channel.ConnectionHops) > 0 {
		key := host.ConnectionChannelsKey(channel.ConnectionHops[0])

		var refs []channelRef
		if err := ctx.getMsgpack(key, &refs); err != nil {
			return err
		}
		if err := ctx.setMsgpack(key, append(refs, channelRef{PortID: portID, ChannelID: channelID})); err != nil {
			return err
		}
	}

	return ctx.store.Set(host.ChannelKey(portID, channelID), channeltypes.MustMarshalChannel(channel))
}

// ChannelCounter implements coretypes.ValidationContext.
func (ctx *MockContext) ChannelCounter() (uint64, error) {
	return ctx.counter(host.NextChannelSequenceKey())
}

// IncreaseChannelCounter implements coretypes.ExecutionContext.
func (ctx *MockContext) IncreaseChannelCounter() error {
	return ctx.increaseCounter(host.NextChannelSequenceKey())
}

// GetNextSequenceSend implements coretypes.ValidationContext.
func (ctx *MockContext) GetNextSequenceSend(portID, channelID string) (uint64, error) {
	return ctx.sequence(host.NextSequenceSendKey(portID, channelID), channeltypes.ErrSequenceSendNotFound, portID, channelID)
}

// GetNextSequenceRecv implements coretypes.ValidationContext.
func (ctx *MockContext) GetNextSequenceRecv(portID, channelID string) (uint64, error) {
	return ctx.sequence(host.NextSequenceRecvKey(portID, channelID), channeltypes.ErrSequenceReceiveNotFound, portID, channelID)
}

// GetNextSequenceAck implements coretypes.ValidationContext.
func (ctx *MockContext) GetNextSequenceAck(portID, channelID string) (uint64, error) {
	return ctx.sequence(host.NextSequenceAckKey(portID, channelID), channeltypes.ErrSequenceAckNotFound, portID, channelID)
}

// StoreNextSequenceSend implements coretypes.ExecutionContext.
func (ctx *MockContext) StoreNextSequenceSend(portID, channelID string, sequence uint64) error {
	return ctx.setUint64(host.NextSequenceSendKey(portID, channelID), sequence)
}

// StoreNextSequenceRecv implements coretypes.ExecutionContext.
func (ctx *MockContext) StoreNextSequenceRecv(portID, channelID string, sequence uint64) error {
	return ctx.setUint64(host.NextSequenceRecvKey(portID, channelID), sequence)
}

// StoreNextSequenceAck implements coretypes.ExecutionContext.
func (ctx *MockContext) StoreNextSequenceAck(portID, channelID string, sequence uint64) error {
	return ctx.setUint64(host.NextSequenceAckKey(portID, channelID), sequence)
}

// GetPacketCommitment implements coretypes.ValidationContext.
func (ctx *MockContext) GetPacketCommitment(portID, channelID string, sequence uint64) ([]byte, error) {
	return ctx.packetRecord(host.PacketCommitmentKey(portID, channelID, sequence), channeltypes.ErrPacketCommitmentNotFound, portID, channelID, sequence)
}

// GetPacketReceipt implements coretypes.ValidationContext.
func (ctx *MockContext) GetPacketReceipt(portID, channelID string, sequence uint64) ([]byte, error) {
	return ctx.packetRecord(host.PacketReceiptKey(portID, channelID, sequence), channeltypes.ErrPacketReceiptNotFound, portID, channelID, sequence)
}

// GetPacketAcknowledgement implements coretypes.ValidationContext.
func (ctx *MockContext) GetPacketAcknowledgement(portID, channelID string, sequence uint64) ([]byte, error) {
	return ctx.packetRecord(host.PacketAcknowledgementKey(portID, channelID, sequence), channeltypes.ErrAcknowledgementNotFound, portID, channelID, sequence)
}

// StorePacketCommitment implements coretypes.ExecutionContext.
func (ctx *MockContext) StorePacketCommitment(portID, channelID string, sequence uint64, commitment []byte) error {
	return ctx.store.Set(host.PacketCommitmentKey(portID, channelID, sequence), commitment)
}

// DeletePacketCommitment implements coretypes.ExecutionContext.
func (ctx *MockContext) DeletePacketCommitment(portID, channelID string, sequence uint64) error {
	return ctx.store.Delete(host.PacketCommitmentKey(portID, channelID, sequence))
}

// StorePacketReceipt implements coretypes.ExecutionContext.
func (ctx *MockContext) StorePacketReceipt(portID, channelID string, sequence uint64) error {
	return ctx.store.Set(host.PacketReceiptKey(portID, channelID, sequence), channeltypes.ReceiptValue)
}

// StorePacketAcknowledgement implements coretypes.ExecutionContext.
func (ctx *MockContext) StorePacketAcknowledgement(portID, channelID string, sequence uint64, ackCommitment []byte) error {
	return ctx.store.Set(host.PacketAcknowledgementKey(portID, channelID, sequence), ackCommitment)
}

// DeletePacketAcknowledgement implements coretypes.ExecutionContext.
func (ctx *MockContext) DeletePacketAcknowledgement(portID, channelID string, sequence uint64) error {
	return ctx.store.Delete(host.PacketAcknowledgementKey(portID, channelID, sequence))
}

// EmitIBCEvent implements coretypes.ExecutionContext.
func (ctx *MockContext) EmitIBCEvent(event coretypes.Event) error {
	ctx.Events = append(ctx.Events, event)
	ctx.logger.Debug("ibc event emitted", "type", event.Type, "height", ctx.LatestHeight().String())
	return nil
}

// LogMessage implements coretypes.ExecutionContext.
func (ctx *MockContext) LogMessage(msg string) error {
	ctx.Logs = append(ctx.Logs, msg)
	ctx.logger.Info(msg, "height", ctx.LatestHeight().String())
	return nil
}

func (ctx *MockContext) sequence(key []byte, errNotFound *errorsmod.Error, portID, channelID string) (uint64, error) {
	sequence, found, err := ctx.getUint64(key)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errorsmod.Wrapf(errNotFound, "port ID (%s) channel ID (%s)", portID, channelID)
	}
	return sequence, nil
}

func (ctx *MockContext) packetRecord(key []byte, errNotFound *errorsmod.Error, portID, channelID string, sequence uint64) ([]byte, error) {
	bz, err := ctx.store.Get(key)
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, errorsmod.Wrapf(errNotFound, "port ID (%s) channel ID (%s) sequence (%d)", portID, channelID, sequence)
	}
	return bz, nil
}

// counter returns the identifier counter stored under key, zero if unset.
func (ctx *MockContext) counter(key []byte) (uint64, error) {
	value, _, err := ctx.getUint64(key)
	return value, err
}

func (ctx *MockContext) increaseCounter(key []byte) error {
	value, err := ctx.counter(key)
	if err != nil {
		return err
	}
	return ctx.setUint64(key, value+1)
}

func (ctx *MockContext) getUint64(key []byte) (uint64, bool, error) {
	bz, err := ctx.store.Get(key)
	if err != nil || bz == nil {
		return 0, false, err
	}
	if len(bz) != 8 {
		return 0, false, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "value under %s is not a uint64", key)
	}
	return binary.BigEndian.Uint64(bz), true, nil
}

// setUint64 stores the value in the big endian encoding proven for sequences.
func (ctx *MockContext) setUint64(key []byte, value uint64) error {
	return ctx.store.Set(key, channeltypes.SequenceBytes(value))
}

// getMsgpack decodes the value under key into ptr. An absent key leaves ptr untouched.
func (ctx *MockContext) getMsgpack(key []byte, ptr any) error {
	bz, err := ctx.store.Get(key)
	if err != nil || bz == nil {
		return err
	}
	if err := msgpack.Unmarshal(bz, ptr); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidType, "cannot decode value under %s: %s", key, err)
	}
	return nil
}

func (ctx *MockContext) setMsgpack(key []byte, value any) error {
	bz, err := msgpack.Marshal(value)
	if err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidType, "cannot encode value under %s: %s", key, err)
	}
	return ctx.store.Set(key, bz)
}

func marshalAny(anyValue *gogotypes.Any) ([]byte, error) {
	bz, err := anyValue.Marshal()
	if err != nil {
		return nil, errorsmod.Wrap(ibcerrors.ErrPackAny, err.Error())
	}
	return bz, nil
}

func unmarshalAny(bz []byte) (*gogotypes.Any, error) {
	var anyValue gogotypes.Any
	if err := anyValue.Unmarshal(bz); err != nil {
		return nil, errorsmod.Wrap(ibcerrors.ErrUnpackAny, err.Error())
	}
	return &anyValue, nil
}

// String implements fmt.Stringer.
func (ctx *MockContext) String() string {
	return fmt.Sprintf("MockContext{chain-id: %s, height: %s, history: %d}", ctx.chainID, ctx.LatestHeight(), len(ctx.history))
}
