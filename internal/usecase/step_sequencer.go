package usecase

import (
	"errors"

	"dispatch-booking-service/internal/domain/entity"
)

// StepID identifies one screen of the booking wizard
type StepID string

const (
	StepRideType        StepID = "ride-type"
	StepEvent           StepID = "event"
	StepClient          StepID = "client"
	StepPassenger       StepID = "passenger"
	StepLocationDetails StepID = "location-details"
	StepDriver          StepID = "driver"
	StepMission         StepID = "mission"
	StepReview          StepID = "review"
)

// ErrJumpAhead is returned when a jump targets a step past the active one
var ErrJumpAhead = errors.New("cannot jump ahead of the active step")

// ComputeSteps returns the ordered wizard steps for the current answers
func ComputeSteps(state entity.WorkflowState) []StepID {
	steps := []StepID{StepRideType, StepEvent, StepClient, StepPassenger, StepLocationDetails}
	if state.IsMission() {
		steps = append(steps, StepMission)
	} else {
		steps = append(steps, StepDriver)
	}
	return append(steps, StepReview)
}

// StepCursor tracks the active position in a step list that is recomputed
// on every state change
type StepCursor struct {
	steps []StepID
	index int
}

// NewStepCursor starts at the first step for state
func NewStepCursor(state entity.WorkflowState) *StepCursor {
	return &StepCursor{steps: ComputeSteps(state)}
}

// Steps returns a copy of the current step list
func (c *StepCursor) Steps() []StepID {
	return append([]StepID(nil), c.steps...)
}

func (c *StepCursor) Index() int {
	return c.index
}

func (c *StepCursor) Active() StepID {
	return c.steps[c.index]
}

func (c *StepCursor) Advance() {
	c.index = min(c.index+1, len(c.steps)-1)
}

func (c *StepCursor) Retreat() {
	c.index = max(c.index-1, 0)
}

// JumpTo moves back to step i. Moving forward has to go through Advance so
// the steps in between are validated.
func (c *StepCursor) JumpTo(i int) error {
	if i < 0 {
		i = 0
	}
	if i > c.index {
		return ErrJumpAhead
	}
	c.index = i
	return nil
}

// Recompute rebuilds the step list from state. The active step keeps its
// position when it survives; when it is gone the cursor falls back to the
// nearest earlier step that still exists.
func (c *StepCursor) Recompute(state entity.WorkflowState) {
	prev := c.steps
	active := prev[c.index]
	next := ComputeSteps(state)

	c.steps = next
	if i := indexOf(next, active); i >= 0 {
		c.index = i
		return
	}
	for j := c.index - 1; j >= 0; j-- {
		if i := indexOf(next, prev[j]); i >= 0 {
			c.index = i
			return
		}
	}
	c.index = min(c.index, len(next)-1)
}

// Reset returns to the first step
func (c *StepCursor) Reset(state entity.WorkflowState) {
	c.steps = ComputeSteps(state)
	c.index = 0
}

func indexOf(steps []StepID, id StepID) int {
	for i, s := range steps {
		if s == id {
			return i
		}
	}
	return -1
}
