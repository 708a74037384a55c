package handler

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	commitmenttypes "github.com/cosmos/ibc-core/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// VerifyConnectionState verifies a proof of the connection state of the
// specified connection end stored on the target machine.
func VerifyConnectionState(
	ctx coretypes.ValidationContext,
	connection types.ConnectionEnd,
	height exported.Height,
	proof []byte,
	connectionID string,
	counterpartyConnection types.ConnectionEnd, // opposite connection
) error {
	clientID := connection.GetClientID()
	clientState, err := getActiveClientState(ctx, clientID)
	if err != nil {
		return err
	}

	merklePath, err := prefixedPath(connection, host.ConnectionPath(connectionID))
	if err != nil {
		return err
	}

	if err := clientState.VerifyMembership(
		ctx, clientID, height,
		0, 0, // skip delay period checks for non-packet processing verification
		proof, merklePath.Bytes(), types.MustMarshalConnection(counterpartyConnection),
	); err != nil {
		return errorsmod.Wrapf(err, "failed connection state verification for client (%s)", clientID)
	}

	return nil
}

// VerifyChannelState verifies a proof of the channel state of the specified
// channel end, under the specified port, stored on the target machine.
func VerifyChannelState(
	ctx coretypes.ValidationContext,
	connection types.ConnectionEnd,
	height exported.Height,
	proof []byte,
	portID,
	channelID string,
	channel channeltypes.Channel,
) error {
	clientID := connection.GetClientID()
	clientState, err := getActiveClientState(ctx, clientID)
	if err != nil {
		return err
	}

	merklePath, err := prefixedPath(connection, host.ChannelPath(portID, channelID))
	if err != nil {
		return err
	}

	if err := clientState.VerifyMembership(
		ctx, clientID, height,
		0, 0, // skip delay period checks for non-packet processing verification
		proof, merklePath.Bytes(), channeltypes.MustMarshalChannel(channel),
	); err != nil {
		return errorsmod.Wrapf(err, "failed channel state verification for client (%s)", clientID)
	}

	return nil
}

// VerifyPacketCommitment verifies a proof of an outgoing packet commitment at
// the specified port, specified channel, and specified sequence.
func VerifyPacketCommitment(
	ctx coretypes.ValidationContext,
	connection types.ConnectionEnd,
	height exported.Height,
	proof []byte,
	portID,
	channelID string,
	sequence uint64,
	commitmentBytes []byte,
) error {
	clientID := connection.GetClientID()
	clientState, err := getActiveClientState(ctx, clientID)
	if err != nil {
		return err
	}

	// get time and block delays
	timeDelay := connection.GetDelayPeriod()
	blockDelay := ctx.ConnectionParams().BlockDelay(timeDelay)

	merklePath, err := prefixedPath(connection, host.PacketCommitmentPath(portID, channelID, sequence))
	if err != nil {
		return err
	}

	if err := clientState.VerifyMembership(
		ctx, clientID, height,
		timeDelay, blockDelay,
		proof, merklePath.Bytes(), commitmentBytes,
	); err != nil {
		return errorsmod.Wrapf(err, "failed packet commitment verification for client (%s)", clientID)
	}

	return nil
}

// VerifyPacketAcknowledgement verifies a proof of an incoming packet
// acknowledgement at the specified port, specified channel, and specified sequence.
func VerifyPacketAcknowledgement(
	ctx coretypes.ValidationContext,
	connection types.ConnectionEnd,
	height exported.Height,
	proof []byte,
	portID,
	channelID string,
	sequence uint64,
	acknowledgement []byte,
) error {
	clientID := connection.GetClientID()
	clientState, err := getActiveClientState(ctx, clientID)
	if err != nil {
		return err
	}

	// get time and block delays
	timeDelay := connection.GetDelayPeriod()
	blockDelay := ctx.ConnectionParams().BlockDelay(timeDelay)

	merklePath, err := prefixedPath(connection, host.PacketAcknowledgementPath(portID, channelID, sequence))
	if err != nil {
		return err
	}

	if err := clientState.VerifyMembership(
		ctx, clientID, height,
		timeDelay, blockDelay,
		proof, merklePath.Bytes(), channeltypes.CommitAcknowledgement(acknowledgement),
	); err != nil {
		return errorsmod.Wrapf(err, "failed packet acknowledgement verification for client (%s)", clientID)
	}

	return nil
}

// VerifyPacketReceiptAbsence verifies a proof of the absence of an
// incoming packet receipt at the specified port, specified channel, and
// specified sequence.
func VerifyPacketReceiptAbsence(
	ctx coretypes.ValidationContext,
	connection types.ConnectionEnd,
	height exported.Height,
	proof []byte,
	portID,
	channelID string,
	sequence uint64,
) error {
	clientID := connection.GetClientID()
	clientState, err := getActiveClientState(ctx, clientID)
	if err != nil {
		return err
	}

	// get time and block delays
	timeDelay := connection.GetDelayPeriod()
	blockDelay := ctx.ConnectionParams().BlockDelay(timeDelay)

	merklePath, err := prefixedPath(connection, host.PacketReceiptPath(portID, channelID, sequence))
	if err != nil {
		return err
	}

	if err := clientState.VerifyNonMembership(
		ctx, clientID, height,
		timeDelay, blockDelay,
		proof, merklePath.Bytes(),
	); err != nil {
		return errorsmod.Wrapf(err, "failed packet receipt absence verification for client (%s)", clientID)
	}

	return nil
}

// VerifyNextSequenceRecv verifies a proof of the next sequence number to be
// received of the specified channel at the specified port.
func VerifyNextSequenceRecv(
	ctx coretypes.ValidationContext,
	connection types.ConnectionEnd,
	height exported.Height,
	proof []byte,
	portID,
	channelID string,
	nextSequenceRecv uint64,
) error {
	clientID := connection.GetClientID()
	clientState, err := getActiveClientState(ctx, clientID)
	if err != nil {
		return err
	}

	// get time and block delays
	timeDelay := connection.GetDelayPeriod()
	blockDelay := ctx.ConnectionParams().BlockDelay(timeDelay)

	merklePath, err := prefixedPath(connection, host.NextSequenceRecvPath(portID, channelID))
	if err != nil {
		return err
	}

	if err := clientState.VerifyMembership(
		ctx, clientID, height,
		timeDelay, blockDelay,
		proof, merklePath.Bytes(), channeltypes.SequenceBytes(nextSequenceRecv),
	); err != nil {
		return errorsmod.Wrapf(err, "failed next sequence receive verification for client (%s)", clientID)
	}

	return nil
}

// getActiveClientState returns the client state of the given client if the
// client is active.
func getActiveClientState(ctx coretypes.ValidationContext, clientID string) (exported.ClientState, error) {
	clientState, err := ctx.ClientState(clientID)
	if err != nil {
		return nil, errorsmod.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	if err := clienttypes.StatusError(clientID, clientState.Status(ctx, clientID)); err != nil {
		return nil, err
	}

	return clientState, nil
}

func prefixedPath(connection types.ConnectionEnd, path string) (commitmenttypes.MerklePath, error) {
	return commitmenttypes.ApplyPrefix(connection.GetCounterparty().GetPrefix(), commitmenttypes.NewMerklePath(path))
}
