package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"
	"dispatch-booking-service/pkg/logger"
	"dispatch-booking-service/pkg/metrics"
	"dispatch-booking-service/pkg/utils"
)

var (
	ErrWorkflowClosed       = errors.New("workflow is closed")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrStepInvalid          = errors.New("step has invalid fields")
)

const defaultLookupTimeout = 15 * time.Second

// LookupStatus is the user-visible state of the flight lookup
type LookupStatus string

const (
	LookupIdle     LookupStatus = "idle"
	LookupPending  LookupStatus = "pending"
	LookupFound    LookupStatus = "found"
	LookupNotFound LookupStatus = "not_found"
	LookupFailed   LookupStatus = "error"
)

// FlightLookupView reports the lookup of the current flight number
type FlightLookupView struct {
	FlightNumber string       `json:"flightNumber,omitempty"`
	Status       LookupStatus `json:"status"`
	Message      string       `json:"message,omitempty"`
}

// FetchOutcome is how a flight fetch ended
type FetchOutcome string

const (
	FetchApplied   FetchOutcome = "applied"
	FetchNotFound  FetchOutcome = "not_found"
	FetchFailed    FetchOutcome = "failed"
	FetchDiscarded FetchOutcome = "discarded"
)

// FlightFetch is one outstanding flight schedule lookup. The fetch pointer
// together with the workflow epoch is the correlation token: a result is
// only applied when this fetch is still the pending one.
type FlightFetch struct {
	FlightNumber string

	epoch   uint64
	cancel  context.CancelFunc
	done    chan struct{}
	outcome FetchOutcome
}

// Done is closed once the fetch has been applied or discarded
func (f *FlightFetch) Done() <-chan struct{} {
	return f.done
}

// Outcome is only meaningful after Done is closed
func (f *FlightFetch) Outcome() FetchOutcome {
	return f.outcome
}

// WorkflowView is a read-only snapshot of a workflow
type WorkflowView struct {
	ID              string               `json:"id"`
	State           entity.WorkflowState `json:"state"`
	Steps           []StepID             `json:"steps"`
	ActiveIndex     int                  `json:"activeIndex"`
	ActiveStep      StepID               `json:"activeStep"`
	FieldErrors     []FieldError         `json:"fieldErrors,omitempty"`
	FlightLookup    FlightLookupView     `json:"flightLookup"`
	Submitting      bool                 `json:"submitting"`
	SubmissionError string               `json:"submissionError,omitempty"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// Submitter assembles and persists the final payload of a workflow
type Submitter interface {
	Assemble(ctx context.Context, state entity.WorkflowState) (entity.CreationRequest, error)
	Persist(ctx context.Context, req entity.CreationRequest) (*entity.CreatedBooking, error)
}

// SubmissionResult is returned for an accepted submission
type SubmissionResult struct {
	Booking  *entity.CreatedBooking `json:"booking"`
	Request  entity.CreationRequest `json:"request"`
	Workflow WorkflowView           `json:"workflow"`
}

// WorkflowOptions wires a workflow to its collaborators
type WorkflowOptions struct {
	Flights       repository.FlightScheduleRepository
	Logger        logger.Logger
	Metrics       *metrics.Metrics
	Clock         func() time.Time
	LookupTimeout time.Duration
	// OnChange receives the view after an asynchronous flight lookup
	// changed the workflow
	OnChange func(WorkflowView)
}

// Workflow is one booking attempt. Every mutation goes through its methods;
// the lock only guards against concurrent requests on the same attempt.
type Workflow struct {
	mu sync.Mutex

	id          string
	state       entity.WorkflowState
	cursor      *StepCursor
	fieldErrors []FieldError
	lookup      FlightLookupView
	lastFetched *entity.ScheduleRecord
	edited      derivedEdits
	pending     *FlightFetch
	epoch       uint64
	closed      bool
	submitting  bool
	submitErr   string
	updatedAt   time.Time

	flights       repository.FlightScheduleRepository
	logger        logger.Logger
	metrics       *metrics.Metrics
	clock         func() time.Time
	lookupTimeout time.Duration
	onChange      func(WorkflowView)
}

// NewWorkflow creates a workflow with fresh default answers
func NewWorkflow(id string, opts WorkflowOptions) *Workflow {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	timeout := opts.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	now := clock()
	state := entity.NewWorkflowState(now)
	return &Workflow{
		id:            id,
		state:         state,
		cursor:        NewStepCursor(state),
		lookup:        FlightLookupView{Status: LookupIdle},
		updatedAt:     now,
		flights:       opts.Flights,
		logger:        log.With("workflowId", id),
		metrics:       opts.Metrics,
		clock:         clock,
		lookupTimeout: timeout,
		onChange:      opts.OnChange,
	}
}

func (w *Workflow) ID() string {
	return w.id
}

// View returns a snapshot of the workflow
func (w *Workflow) View() WorkflowView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

// LastActivity is the time of the last mutation
func (w *Workflow) LastActivity() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updatedAt
}

// Apply merges answers into the state. When the flight number changes to a
// new valid identifier a lookup is started and returned.
func (w *Workflow) Apply(a Answers) (*FlightFetch, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrWorkflowClosed
	}

	prevCategory := w.state.Category
	prevSubtype := w.state.AirportTransferSubtype

	if a.IsMission != nil {
		w.setKindLocked(*a.IsMission)
	}
	a.applyPlain(&w.state)
	w.edited.mark(a)

	var fetch *FlightFetch
	if a.FlightNumber != nil {
		fetch = w.setFlightNumberLocked(*a.FlightNumber)
	}

	// A category or subtype change re-derives from the cached schedule
	// without a new lookup. Hand-edited fields are kept.
	if fetch == nil && w.state.FlightSchedule != nil &&
		(w.state.Category != prevCategory || w.state.AirportTransferSubtype != prevSubtype) {
		deriveFromSchedule(&w.state, w.edited)
	}

	w.cursor.Recompute(w.state)
	if len(w.fieldErrors) > 0 {
		w.fieldErrors = ValidateStep(w.cursor.Active(), w.state)
	}
	w.touchLocked()
	return fetch, nil
}

// Advance moves to the next step when the active step's fields are valid.
// Otherwise the position is unchanged and ErrStepInvalid is returned with
// the field errors in the view.
func (w *Workflow) Advance() (WorkflowView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return w.viewLocked(), ErrWorkflowClosed
	}

	w.fieldErrors = ValidateStep(w.cursor.Active(), w.state)
	if len(w.fieldErrors) > 0 {
		return w.viewLocked(), ErrStepInvalid
	}
	w.cursor.Advance()
	w.touchLocked()
	return w.viewLocked(), nil
}

func (w *Workflow) Retreat() (WorkflowView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return w.viewLocked(), ErrWorkflowClosed
	}
	w.fieldErrors = nil
	w.cursor.Retreat()
	w.touchLocked()
	return w.viewLocked(), nil
}

// JumpTo moves back to step i
func (w *Workflow) JumpTo(i int) (WorkflowView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return w.viewLocked(), ErrWorkflowClosed
	}
	if err := w.cursor.JumpTo(i); err != nil {
		return w.viewLocked(), err
	}
	w.fieldErrors = nil
	w.touchLocked()
	return w.viewLocked(), nil
}

// Submit validates the whole form, assembles the payload and persists it.
// Only one submission may be in flight. On success the workflow starts
// over; on failure the answers are kept and the reason is reported as is.
func (w *Workflow) Submit(ctx context.Context, s Submitter) (*SubmissionResult, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWorkflowClosed
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	if errs := ValidateAll(w.cursor.Steps(), w.state); len(errs) > 0 {
		w.fieldErrors = errs
		w.mu.Unlock()
		return nil, ErrStepInvalid
	}
	w.submitting = true
	w.submitErr = ""
	w.fieldErrors = nil
	snapshot := w.state.Clone()
	epoch := w.epoch
	w.mu.Unlock()

	req, err := s.Assemble(ctx, snapshot)
	var created *entity.CreatedBooking
	if err == nil {
		created, err = s.Persist(ctx, req)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		w.submitErr = err.Error()
		w.touchLocked()
		return nil, err
	}

	if epoch == w.epoch && !w.closed {
		w.resetLocked()
	}
	return &SubmissionResult{
		Booking:  created,
		Request:  req,
		Workflow: w.viewLocked(),
	}, nil
}

// Reset discards the answers and returns to the first step. A lookup still
// in flight is never applied afterwards.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

// Close abandons the workflow
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.epoch++
	w.cancelPendingLocked()
}

func (w *Workflow) resetLocked() {
	w.epoch++
	w.cancelPendingLocked()
	w.state = entity.NewWorkflowState(w.clock())
	w.cursor.Reset(w.state)
	w.lastFetched = nil
	w.edited = derivedEdits{}
	w.lookup = FlightLookupView{Status: LookupIdle}
	w.fieldErrors = nil
	w.submitErr = ""
	w.touchLocked()
}

func (w *Workflow) setKindLocked(isMission bool) {
	if !isMission {
		w.state.Kind = entity.KindRide
		return
	}
	w.state.Kind = entity.KindMission
	if w.state.Mission == nil {
		w.state.Mission = &entity.MissionDraft{
			ClientID:     w.state.ClientID,
			Status:       entity.MissionStatusScheduled,
			PassengerIDs: []string{},
		}
	}
}

// setFlightNumberLocked invalidates the cached schedule when the identifier
// changes and starts a lookup for a new valid identifier
func (w *Workflow) setFlightNumberLocked(raw string) *FlightFetch {
	id := utils.NormalizeFlightNumber(raw)
	if id == w.state.FlightNumber {
		return nil
	}

	w.state.FlightNumber = id
	w.cancelPendingLocked()
	if w.state.FlightSchedule != nil && w.state.FlightSchedule.FlightNumber != id {
		w.state.FlightSchedule = nil
	}

	if !utils.IsFlightNumber(id) {
		w.lookup = FlightLookupView{FlightNumber: id, Status: LookupIdle}
		return nil
	}

	// Back to the identifier of the last successful lookup: reuse it
	// without deriving again.
	if w.lastFetched != nil && w.lastFetched.FlightNumber == id {
		rec := *w.lastFetched
		w.state.FlightSchedule = &rec
		w.lookup = FlightLookupView{FlightNumber: id, Status: LookupFound}
		return nil
	}

	if w.flights == nil {
		w.lookup = FlightLookupView{FlightNumber: id, Status: LookupFailed, Message: "Flight lookup is not configured"}
		return nil
	}
	return w.startFetchLocked(id)
}

func (w *Workflow) startFetchLocked(id string) *FlightFetch {
	ctx, cancel := context.WithTimeout(context.Background(), w.lookupTimeout)
	f := &FlightFetch{
		FlightNumber: id,
		epoch:        w.epoch,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
	w.pending = f
	w.lookup = FlightLookupView{FlightNumber: id, Status: LookupPending}

	go w.runFetch(ctx, f)
	return f
}

func (w *Workflow) runFetch(ctx context.Context, f *FlightFetch) {
	defer close(f.done)
	defer f.cancel()

	record, err := w.flights.Lookup(ctx, f.FlightNumber)
	view, changed := w.resolveFetch(f, record, err)
	if changed && w.onChange != nil {
		w.onChange(view)
	}
}

func (w *Workflow) resolveFetch(f *FlightFetch, record *entity.ScheduleRecord, err error) (WorkflowView, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || f.epoch != w.epoch || w.pending != f || w.state.FlightNumber != f.FlightNumber {
		f.outcome = FetchDiscarded
		w.countLookup(metrics.LookupDiscarded)
		w.logger.Debug("Discarding stale flight lookup", "flightNumber", f.FlightNumber)
		return WorkflowView{}, false
	}
	w.pending = nil

	switch {
	case errors.Is(err, repository.ErrScheduleNotFound) || (err == nil && record == nil):
		f.outcome = FetchNotFound
		w.lookup = FlightLookupView{
			FlightNumber: f.FlightNumber,
			Status:       LookupNotFound,
			Message:      fmt.Sprintf("No schedule found for flight %s", f.FlightNumber),
		}
		w.countLookup(metrics.LookupNotFound)
		w.logger.Info("Flight schedule not found", "flightNumber", f.FlightNumber)
	case err != nil:
		f.outcome = FetchFailed
		w.lookup = FlightLookupView{
			FlightNumber: f.FlightNumber,
			Status:       LookupFailed,
			Message:      fmt.Sprintf("Could not look up flight %s, enter the pickup details manually", f.FlightNumber),
		}
		w.countLookup(metrics.LookupError)
		w.logger.Warn("Flight lookup failed", "flightNumber", f.FlightNumber, "error", err)
	default:
		f.outcome = FetchApplied
		applied := *record
		cached := *record
		w.state.FlightSchedule = &applied
		w.lastFetched = &cached
		w.edited = derivedEdits{}
		deriveFromSchedule(&w.state, w.edited)
		w.lookup = FlightLookupView{FlightNumber: f.FlightNumber, Status: LookupFound}
		w.countLookup(metrics.LookupFound)
		w.logger.Info("Flight schedule applied", "flightNumber", f.FlightNumber)
	}

	w.touchLocked()
	return w.viewLocked(), true
}

func (w *Workflow) cancelPendingLocked() {
	if w.pending != nil {
		w.pending.cancel()
		w.pending = nil
	}
}

func (w *Workflow) countLookup(outcome string) {
	if w.metrics != nil {
		w.metrics.FlightLookups.WithLabelValues(outcome).Inc()
	}
}

func (w *Workflow) touchLocked() {
	w.updatedAt = w.clock()
}

func (w *Workflow) viewLocked() WorkflowView {
	return WorkflowView{
		ID:              w.id,
		State:           w.state.Clone(),
		Steps:           w.cursor.Steps(),
		ActiveIndex:     w.cursor.Index(),
		ActiveStep:      w.cursor.Active(),
		FieldErrors:     append([]FieldError(nil), w.fieldErrors...),
		FlightLookup:    w.lookup,
		Submitting:      w.submitting,
		SubmissionError: w.submitErr,
		UpdatedAt:       w.updatedAt,
	}
}
