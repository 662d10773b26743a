package model

import "errors"

// Common errors used across the application
var (
	// Engine configuration errors
	ErrInvalidDepth   = errors.New("lookahead depth must be between 1 and 3")
	ErrNegativeJitter = errors.New("jitter must not be negative")
	ErrNegativeWait   = errors.New("average wait must not be negative")
	ErrInvalidWidth   = errors.New("grid width must be at least 2")
	ErrInvalidHeight  = errors.New("grid height must be at least 2")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrBuiltinProfile  = errors.New("builtin profiles cannot be modified")

	// Simulation errors
	ErrSimulationNotFound = errors.New("simulation not found")
	ErrInvalidSimulation  = errors.New("invalid simulation request")
)
