package ibctesting

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/ed25519"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	commitmenttypes "github.com/cosmos/ibc-core/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	"github.com/cosmos/ibc-core/modules/core/exported"
	solomachine "github.com/cosmos/ibc-core/modules/light-clients/06-solomachine"
)

// DefaultSolomachineClientID is the default solo machine client id used for testing
var DefaultSolomachineClientID = "06-solomachine-0"

// Solomachine is a testing helper used to simulate a counterparty
// solo machine client. It signs over the values stored under the paths of its
// commitment prefix and over rotations of its own key.
type Solomachine struct {
	t *testing.T

	ClientID    string
	PrivateKey  ed25519.PrivKey // key used for signing
	PublicKey   ed25519.PubKey  // key used for verification
	Prefix      commitmenttypes.MerklePrefix
	Sequence    uint64
	Time        uint64
	Diversifier string
}

// NewSolomachine returns a new solomachine instance with a freshly generated
// ed25519 key pair and a sequence starting at 1.
func NewSolomachine(t *testing.T, clientID, diversifier string) *Solomachine {
	t.Helper()

	privKey := ed25519.GenPrivKey()
	pubKey, ok := privKey.PubKey().(ed25519.PubKey)
	require.True(t, ok)

	return &Solomachine{
		t:           t,
		ClientID:    clientID,
		PrivateKey:  privKey,
		PublicKey:   pubKey,
		Prefix:      commitmenttypes.NewMerklePrefix(commitmenttypes.DefaultPrefix),
		Sequence:    1,
		Time:        10,
		Diversifier: diversifier,
	}
}

// ClientState returns a new solo machine ClientState instance.
func (solo *Solomachine) ClientState() *solomachine.ClientState {
	return solomachine.NewClientState(solo.Sequence, solo.ConsensusState())
}

// ConsensusState returns a new solo machine ConsensusState instance
func (solo *Solomachine) ConsensusState() *solomachine.ConsensusState {
	return &solomachine.ConsensusState{
		PublicKey:   solo.PublicKey.Bytes(),
		Diversifier: solo.Diversifier,
		Timestamp:   solo.Time,
	}
}

// GetHeight returns an exported.Height with Sequence as RevisionHeight
func (solo *Solomachine) GetHeight() clienttypes.Height {
	return clienttypes.NewHeight(0, solo.Sequence)
}

// CreateClient creates an on-chain client on the provided chain.
func (solo *Solomachine) CreateClient(chain *TestChain) string {
	cdc := chain.Ctx.Codec()
	msg := clienttypes.NewMsgCreateClient(cdc.MustPackClientState(solo.ClientState()), cdc.MustPackConsensusState(solo.ConsensusState()))

	events, err := chain.SendMsg(msg)
	require.NoError(solo.t, err)

	clientID, err := ParseClientIDFromEvents(events)
	require.NoError(solo.t, err)

	return clientID
}

// UpdateClient sends a MsgUpdateClient to the provided chain and updates the given clientID.
// The solo machine rotates to a new key in the process.
func (solo *Solomachine) UpdateClient(chain *TestChain, clientID string) {
	header := solo.CreateHeader(solo.Diversifier)

	msg := clienttypes.NewMsgUpdateClient(clientID, chain.Ctx.Codec().MustPackClientMessage(header))

	_, err := chain.SendMsg(msg)
	require.NoError(solo.t, err)
}

// CreateHeader generates a new private/public key pair and creates the
// necessary signature to construct a valid solo machine header.
// A new diversifier will be used as well
func (solo *Solomachine) CreateHeader(newDiversifier string) *solomachine.Header {
	// generate new private keys and signature for header
	newPrivKey := ed25519.GenPrivKey()
	newPubKey, ok := newPrivKey.PubKey().(ed25519.PubKey)
	require.True(solo.t, ok)

	signBytes, err := solomachine.HeaderSignBytes(solo.Sequence, solo.Diversifier, solo.Time, newPubKey.Bytes(), newDiversifier)
	require.NoError(solo.t, err)

	header := &solomachine.Header{
		Timestamp:      solo.Time,
		Signature:      solo.GenerateSignature(signBytes),
		NewPublicKey:   newPubKey.Bytes(),
		NewDiversifier: newDiversifier,
	}

	// assumes successful header update
	solo.Sequence++
	solo.PrivateKey = newPrivKey
	solo.PublicKey = newPubKey
	solo.Diversifier = newDiversifier

	return header
}

// CreateMisbehaviour constructs testing misbehaviour for the solo machine client
// by signing over two different data bytes at the same sequence.
func (solo *Solomachine) CreateMisbehaviour() *solomachine.Misbehaviour {
	merklePath := solo.prefixedPath(host.FullClientStatePath("counterparty"))
	signatureOne := solo.signatureAndData(merklePath.Bytes(), []byte("DATA ONE"))

	// misbehaviour signatures can have different timestamps
	solo.Time++

	merklePath = solo.prefixedPath(host.FullConsensusStatePath("counterparty", clienttypes.NewHeight(0, 1)))
	signatureTwo := solo.signatureAndData(merklePath.Bytes(), []byte("DATA TWO"))

	return &solomachine.Misbehaviour{
		Sequence:     solo.Sequence,
		SignatureOne: signatureOne,
		SignatureTwo: signatureTwo,
	}
}

func (solo *Solomachine) signatureAndData(path, data []byte) *solomachine.SignatureAndData {
	signBytes := &solomachine.SignBytes{
		Sequence:    solo.Sequence,
		Timestamp:   solo.Time,
		Diversifier: solo.Diversifier,
		Path:        path,
		Data:        data,
	}

	bz, err := solomachine.MarshalSignBytes(signBytes)
	require.NoError(solo.t, err)

	return &solomachine.SignatureAndData{
		Signature: solo.GenerateSignature(bz),
		Path:      path,
		Data:      data,
		Timestamp: solo.Time,
	}
}

// GenerateSignature uses the stored private key to generate a signature
// over the sign bytes.
func (solo *Solomachine) GenerateSignature(signBytes []byte) []byte {
	sig, err := solo.PrivateKey.Sign(signBytes)
	require.NoError(solo.t, err)

	return sig
}

// GenerateProof takes in solo machine sign bytes, generates a signature and marshals it as a proof.
// The solo machine sequence is not incremented: the client verifies proofs at its latest sequence.
func (solo *Solomachine) GenerateProof(signBytes *solomachine.SignBytes) []byte {
	bz, err := solomachine.MarshalSignBytes(signBytes)
	require.NoError(solo.t, err)

	proof, err := solomachine.MarshalProof(&solomachine.TimestampedSignatureData{
		SignatureData: solo.GenerateSignature(bz),
		Timestamp:     solo.Time,
	})
	require.NoError(solo.t, err)

	return proof
}

// GenerateMembershipProof signs over the value stored under the host path.
func (solo *Solomachine) GenerateMembershipProof(path string, value []byte) []byte {
	return solo.GenerateProof(&solomachine.SignBytes{
		Sequence:    solo.Sequence,
		Timestamp:   solo.Time,
		Diversifier: solo.Diversifier,
		Path:        solo.prefixedPath(path).Bytes(),
		Data:        value,
	})
}

// GenerateNonMembershipProof signs over the host path with empty data.
func (solo *Solomachine) GenerateNonMembershipProof(path string) []byte {
	return solo.GenerateMembershipProof(path, nil)
}

// GenerateConnectionStateProof generates the proof of the connection end
// stored by the solo machine.
func (solo *Solomachine) GenerateConnectionStateProof(connectionID string, connection connectiontypes.ConnectionEnd) []byte {
	return solo.GenerateMembershipProof(host.ConnectionPath(connectionID), connectiontypes.MustMarshalConnection(connection))
}

// GenerateChannelStateProof generates the proof of the channel end stored by
// the solo machine.
func (solo *Solomachine) GenerateChannelStateProof(portID, channelID string, channel channeltypes.Channel) []byte {
	return solo.GenerateMembershipProof(host.ChannelPath(portID, channelID), channeltypes.MustMarshalChannel(channel))
}

// GenerateCommitmentProof generates a commitment proof for the provided packet.
func (solo *Solomachine) GenerateCommitmentProof(packet channeltypes.Packet) []byte {
	commitment := channeltypes.CommitPacket(packet)
	return solo.GenerateMembershipProof(host.PacketCommitmentPath(packet.SourcePort, packet.SourceChannel, packet.Sequence), commitment)
}

// GenerateAcknowledgementProof generates an acknowledgement proof.
func (solo *Solomachine) GenerateAcknowledgementProof(packet channeltypes.Packet, ack []byte) []byte {
	commitment := channeltypes.CommitAcknowledgement(ack)
	return solo.GenerateMembershipProof(host.PacketAcknowledgementPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence), commitment)
}

// GenerateReceiptAbsenceProof generates a receipt absence proof for the provided packet.
func (solo *Solomachine) GenerateReceiptAbsenceProof(packet channeltypes.Packet) []byte {
	return solo.GenerateNonMembershipProof(host.PacketReceiptPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence))
}

// GenerateNextSequenceRecvProof generates the proof of the next receive
// sequence of the channel.
func (solo *Solomachine) GenerateNextSequenceRecvProof(portID, channelID string, nextSequenceRecv uint64) []byte {
	return solo.GenerateMembershipProof(host.NextSequenceRecvPath(portID, channelID), channeltypes.SequenceBytes(nextSequenceRecv))
}

func (solo *Solomachine) prefixedPath(path string) commitmenttypes.MerklePath {
	merklePath, err := commitmenttypes.ApplyPrefix(solo.Prefix, commitmenttypes.NewMerklePath(path))
	require.NoError(solo.t, err)

	return merklePath
}

// Frozen reports whether the client of the solo machine on the chain is frozen.
func (solo *Solomachine) Frozen(chain *TestChain, clientID string) bool {
	status, err := chain.Ctx.ClientStatus(clientID)
	require.NoError(solo.t, err)

	return status == exported.Frozen
}
