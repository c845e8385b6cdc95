package domain

import "errors"

// Domain errors.
var (
	ErrTimerNotFound  = errors.New("timer not found")
	ErrParentNotFound = errors.New("parent timer not found")
	ErrAmbiguousID    = errors.New("timer reference matches multiple ids")
	ErrTimerFinished  = errors.New("timer already finished")
	ErrNotStartable   = errors.New("timer has no unallocated budget to run")
	ErrEmptyName      = errors.New("name cannot be empty")
	ErrNegativeBudget = errors.New("budget cannot be negative")
	ErrEmptyPlan      = errors.New("plan file contains no timers")
	ErrConfigExists   = errors.New("config file already exists")
)
