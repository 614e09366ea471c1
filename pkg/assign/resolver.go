package assign

import (
	"fmt"

	"github.com/ternuav/dronescape/pkg/models"
	"github.com/ternuav/dronescape/pkg/registry"
)

// State is the resolver's lifecycle phase
type State int

const (
	// StateCollecting means SET folders still await assignment
	StateCollecting State = iota
	// StateConfirmed means every SET folder has a validated plot
	StateConfirmed
	// StateAborted means the operator cancelled the run
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateConfirmed:
		return "confirmed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Resolver walks the discovered SET folders in order and records a plot
// for each. Assign advances, Back revokes the previous assignment, Abort
// cancels. The plan is only readable once every SET is assigned.
type Resolver struct {
	sets  []models.SetAssignment
	reg   *registry.Registry
	pos   int
	state State
}

// NewResolver creates a resolver over the discovered SET folders.
// Discovering zero sets confirms immediately with an empty plan.
func NewResolver(sets []models.SetAssignment, reg *registry.Registry) *Resolver {
	r := &Resolver{sets: sets, reg: reg}
	if len(sets) == 0 {
		r.state = StateConfirmed
	}
	return r
}

// State returns the resolver's current phase
func (r *Resolver) State() State {
	return r.state
}

// Current returns the SET folder awaiting assignment. ok is false once
// the resolver has left the collecting phase.
func (r *Resolver) Current() (models.SetAssignment, bool) {
	if r.state != StateCollecting {
		return models.SetAssignment{}, false
	}
	return r.sets[r.pos], true
}

// Remaining returns how many SET folders still await assignment
func (r *Resolver) Remaining() int {
	if r.state != StateCollecting {
		return 0
	}
	return len(r.sets) - r.pos
}

// Assign records a plot for the current SET folder and advances. The plot
// must exist in the registry; an unknown plot leaves the resolver where
// it is so the operator can retry.
func (r *Resolver) Assign(plotID string) error {
	if r.state != StateCollecting {
		return fmt.Errorf("resolver is %s, no SET awaits assignment", r.state)
	}
	if !r.reg.Contains(plotID) {
		return &models.ValidationError{
			Field:   "plot_id",
			Message: fmt.Sprintf("unknown plot %q", plotID),
		}
	}

	r.sets[r.pos].PlotID = plotID
	r.pos++
	if r.pos == len(r.sets) {
		r.state = StateConfirmed
	}
	return nil
}

// Back revokes the previous assignment and returns to it
func (r *Resolver) Back() error {
	if r.state != StateCollecting {
		return fmt.Errorf("resolver is %s, cannot go back", r.state)
	}
	if r.pos == 0 {
		return fmt.Errorf("already at the first SET folder")
	}
	r.pos--
	r.sets[r.pos].PlotID = ""
	return nil
}

// Abort cancels the run; no plan will be produced
func (r *Resolver) Abort() {
	r.state = StateAborted
}

// Plan returns the confirmed assignments. Calling it before every SET is
// assigned, or after an abort, is an error.
func (r *Resolver) Plan() (models.AssignmentPlan, error) {
	if r.state != StateConfirmed {
		return models.AssignmentPlan{}, fmt.Errorf("no confirmed plan: resolver is %s", r.state)
	}
	out := make([]models.SetAssignment, len(r.sets))
	copy(out, r.sets)
	return models.AssignmentPlan{Assignments: out}, nil
}
