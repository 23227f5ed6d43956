package strata

// State represents the current state of a Loader.
type State int32

const (
	// StateLoading indicates the Loader is initializing and has not yet
	// processed any table config.
	StateLoading State = iota

	// StateHealthy indicates the Loader has a valid table applied.
	StateHealthy

	// StateDegraded indicates the last table change failed validation or
	// application. The previous valid table remains active.
	StateDegraded

	// StateEmpty indicates the initial table load failed and no valid
	// table has ever been obtained from the source. The Loader continues
	// watching for valid updates.
	StateEmpty
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
