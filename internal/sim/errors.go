package sim

import "errors"

// Business-rule rejections. Operations return these without mutating state.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientPool  = errors.New("insufficient personnel pool")
	ErrUnknownReference  = errors.New("unknown reference")
	ErrInvalidState      = errors.New("invalid state for operation")
	ErrCapacityReached   = errors.New("pool capacity reached")
	ErrLocked            = errors.New("upgrade locked")
	ErrMaxLevel          = errors.New("already at max level")
	ErrRechargePending   = errors.New("recharge already pending")
)
