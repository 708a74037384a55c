package types

import (
	"fmt"
	"reflect"

	errorsmod "cosmossdk.io/errors"
	gogotypes "github.com/gogo/protobuf/types"
	"github.com/vmihailenco/msgpack/v5"

	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

// Codec resolves the type urls carried by Any envelopes to the concrete light
// client types registered by a host. Values are encoded with msgpack inside the
// Any. A Codec is safe for concurrent reads once all registrations are done.
type Codec struct {
	typesByURL map[string]reflect.Type
	urlsByType map[reflect.Type]string
}

// NewCodec returns an empty codec.
func NewCodec() *Codec {
	return &Codec{
		typesByURL: make(map[string]reflect.Type),
		urlsByType: make(map[reflect.Type]string),
	}
}

// RegisterImplementation registers the given prototype under the provided type url.
// The prototype must be a pointer to a struct implementing at least one of
// ClientState, ConsensusState or ClientMessage. It panics if the url or type is
// already registered.
func (c *Codec) RegisterImplementation(typeURL string, prototype any) {
	typ := reflect.TypeOf(prototype)
	if typ == nil || typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("prototype for %s must be a pointer to a struct, got %T", typeURL, prototype))
	}

	switch prototype.(type) {
	case exported.ClientState, exported.ConsensusState, exported.ClientMessage:
	default:
		panic(fmt.Sprintf("prototype %T for %s does not implement a light client interface", prototype, typeURL))
	}

	if _, found := c.typesByURL[typeURL]; found {
		panic(fmt.Sprintf("type url %s already registered", typeURL))
	}
	if url, found := c.urlsByType[typ]; found {
		panic(fmt.Sprintf("type %s already registered under %s", typ, url))
	}

	c.typesByURL[typeURL] = typ
	c.urlsByType[typ] = typeURL
}

// TypeURL returns the type url the concrete type of value is registered under.
func (c *Codec) TypeURL(value any) (string, bool) {
	url, found := c.urlsByType[reflect.TypeOf(value)]
	return url, found
}

// PackClientState constructs a new Any packed with the given client state value. It returns
// an error if the concrete implementation is not registered with the codec.
func (c *Codec) PackClientState(clientState exported.ClientState) (*gogotypes.Any, error) {
	return c.pack(clientState)
}

// UnpackClientState unpacks an Any into a ClientState. It returns an error if the
// client state can't be unpacked into a ClientState.
func (c *Codec) UnpackClientState(anyValue *gogotypes.Any) (exported.ClientState, error) {
	value, err := c.unpack(anyValue)
	if err != nil {
		return nil, err
	}

	clientState, ok := value.(exported.ClientState)
	if !ok {
		return nil, errorsmod.Wrapf(ibcerrors.ErrUnpackAny, "cannot unpack Any into ClientState %T", value)
	}

	return clientState, nil
}

// PackConsensusState constructs a new Any packed with the given consensus state value.
func (c *Codec) PackConsensusState(consensusState exported.ConsensusState) (*gogotypes.Any, error) {
	return c.pack(consensusState)
}

// MustPackConsensusState calls PackConsensusState and panics on error.
func (c *Codec) MustPackConsensusState(consensusState exported.ConsensusState) *gogotypes.Any {
	anyConsensusState, err := c.PackConsensusState(consensusState)
	if err != nil {
		panic(err)
	}

	return anyConsensusState
}

// MustPackClientState calls PackClientState and panics on error.
func (c *Codec) MustPackClientState(clientState exported.ClientState) *gogotypes.Any {
	anyClientState, err := c.PackClientState(clientState)
	if err != nil {
		panic(err)
	}

	return anyClientState
}

// UnpackConsensusState unpacks an Any into a ConsensusState. It returns an error if the
// consensus state can't be unpacked into a ConsensusState.
func (c *Codec) UnpackConsensusState(anyValue *gogotypes.Any) (exported.ConsensusState, error) {
	value, err := c.unpack(anyValue)
	if err != nil {
		return nil, err
	}

	consensusState, ok := value.(exported.ConsensusState)
	if !ok {
		return nil, errorsmod.Wrapf(ibcerrors.ErrUnpackAny, "cannot unpack Any into ConsensusState %T", value)
	}

	return consensusState, nil
}

// PackClientMessage constructs a new Any packed with the given value. It returns
// an error if the concrete implementation is not registered with the codec.
func (c *Codec) PackClientMessage(clientMessage exported.ClientMessage) (*gogotypes.Any, error) {
	return c.pack(clientMessage)
}

// MustPackClientMessage calls PackClientMessage and panics on error.
func (c *Codec) MustPackClientMessage(clientMessage exported.ClientMessage) *gogotypes.Any {
	anyClientMessage, err := c.PackClientMessage(clientMessage)
	if err != nil {
		panic(err)
	}

	return anyClientMessage
}

// UnpackClientMessage unpacks an Any into a ClientMessage. It returns an error if the
// consensus state can't be unpacked into a ClientMessage.
func (c *Codec) UnpackClientMessage(anyValue *gogotypes.Any) (exported.ClientMessage, error) {
	value, err := c.unpack(anyValue)
	if err != nil {
		return nil, err
	}

	clientMessage, ok := value.(exported.ClientMessage)
	if !ok {
		return nil, errorsmod.Wrapf(ibcerrors.ErrUnpackAny, "cannot unpack Any into Header %T", value)
	}

	return clientMessage, nil
}

func (c *Codec) pack(value any) (*gogotypes.Any, error) {
	if rv := reflect.ValueOf(value); !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return nil, errorsmod.Wrap(ibcerrors.ErrPackAny, "cannot pack nil value")
	}

	typeURL, found := c.TypeURL(value)
	if !found {
		return nil, errorsmod.Wrapf(ibcerrors.ErrPackAny, "type %T is not registered", value)
	}

	bz, err := msgpack.Marshal(value)
	if err != nil {
		return nil, errorsmod.Wrap(ibcerrors.ErrPackAny, err.Error())
	}

	return &gogotypes.Any{TypeUrl: typeURL, Value: bz}, nil
}

func (c *Codec) unpack(anyValue *gogotypes.Any) (any, error) {
	if anyValue == nil {
		return nil, errorsmod.Wrap(ibcerrors.ErrUnpackAny, "protobuf Any message cannot be nil")
	}

	typ, found := c.typesByURL[anyValue.TypeUrl]
	if !found {
		return nil, fmt.Errorf("%w: %w", ibcerrors.ErrUnpackAny, errorsmod.Wrap(ErrUnknownClientType, anyValue.TypeUrl))
	}

	value := reflect.New(typ.Elem()).Interface()
	if err := msgpack.Unmarshal(anyValue.Value, value); err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrUnpackAny, "failed to decode %s: %s", anyValue.TypeUrl, err)
	}

	return value, nil
}
