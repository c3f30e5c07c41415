package engine

import "errors"

var (
	ErrWrongStage        = errors.New("action not allowed in current stage")
	ErrUnknownChoice     = errors.New("unknown choice")
	ErrChoiceDisabled    = errors.New("choice is disabled")
	ErrOverBudget        = errors.New("investments exceed starting budget")
	ErrInvalidRebalance  = errors.New("rebalance would overdraw cash")
	ErrNoSimulation      = errors.New("no simulation of that type is active")
	ErrInvalidAllocation = errors.New("invalid allocation")
)
