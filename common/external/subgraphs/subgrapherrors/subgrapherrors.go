package subgrapherrors

import "errors"

var ErrInvalidSubgraphClient = errors.New("invalid subgraph client")
var ErrSubgraphURLNotSet = errors.New("subgraph url not set")
var ErrInvalidSeed = errors.New("invalid pool seed")
var ErrInvalidResponse = errors.New("invalid subgraph response")
