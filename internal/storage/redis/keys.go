package redis

import (
	"fmt"

	"github.com/mcoot/gemfall/internal/model"
)

// Key prefix for all gemfall data
const keyPrefix = "gemfall"

// profileKey returns the Redis key for a Profile
func profileKey(name string) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, name)
}

// profileIndexKey returns the Redis key for the SET of profile names
func profileIndexKey() string {
	return fmt.Sprintf("%s:idx:profiles", keyPrefix)
}

// simulationKey returns the Redis key for a SimulationResult
func simulationKey(id model.SimulationID) string {
	return fmt.Sprintf("%s:simulation:%s", keyPrefix, id)
}

// simulationIndexKey returns the Redis key for the SET of simulation IDs
func simulationIndexKey() string {
	return fmt.Sprintf("%s:idx:simulations", keyPrefix)
}
