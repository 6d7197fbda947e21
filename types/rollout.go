package types

// RolloutObservation is the externally resolved view of one generation-swap
// rollout at tick time.
//
// All replica counts are supplied by the machine-set rollout controller; the
// coordinator performs no I/O of its own.
type RolloutObservation struct {
	// DesiredReplicas is the target replica count of the pool.
	DesiredReplicas int `json:"desiredReplicas"`

	// NewerSetReplicas is the current replica count of the newer machine
	// generation.
	NewerSetReplicas int `json:"newerSetReplicas"`

	// OlderSetsReplicas is the combined replica count of all older machine
	// generations still holding replicas.
	OlderSetsReplicas int `json:"olderSetsReplicas"`

	// UnavailableInNewerSet is the number of newer-generation replicas that
	// are not yet available.
	UnavailableInNewerSet int `json:"unavailableInNewerSet"`
}

// RolloutPhase represents the lifecycle phase of a rollout.
//
// Phases progress in one direction:
//
//	RolloutIdle → RolloutInProgress → RolloutCompleted
//
// A rollout enters InProgress when replicas still need to transfer between
// generations, and Completed once all older generations are drained and the
// newer generation reached the desired replica count.
type RolloutPhase int

const (
	// RolloutIdle indicates no replica transfer has been observed yet.
	RolloutIdle RolloutPhase = iota

	// RolloutInProgress indicates replicas are transferring to the newer
	// generation under surge/unavailable constraints.
	RolloutInProgress

	// RolloutCompleted indicates all replicas were transferred to the newer
	// generation. Tick operations grant no further permits.
	RolloutCompleted
)

// String returns the string representation of the rollout phase.
func (p RolloutPhase) String() string {
	switch p {
	case RolloutIdle:
		return "Idle"
	case RolloutInProgress:
		return "InProgress"
	case RolloutCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}
