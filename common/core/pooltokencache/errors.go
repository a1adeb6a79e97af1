package pooltokencache

import "errors"

var (
	// ErrPoolTokenAlreadyIndexed means a second pool token was about to be
	// indexed under a key that is already taken. It is a logic error.
	ErrPoolTokenAlreadyIndexed = errors.New("pool token already indexed")
	// ErrUpstream wraps failures of the subgraph client.
	ErrUpstream = errors.New("pool token upstream failure")
	// ErrInvalidSeed is returned for seeds that carry no usable identity.
	ErrInvalidSeed = errors.New("invalid pool token seed")
)
