package usecase

import (
	"context"
	"errors"
)

// BookingService is the workflow API exposed to the HTTP layer
type BookingService interface {
	StartWorkflow(ctx context.Context) (*WorkflowView, error)
	GetWorkflow(ctx context.Context, id string) (*WorkflowView, error)
	UpdateWorkflow(ctx context.Context, id string, answers Answers) (*WorkflowView, error)
	Advance(ctx context.Context, id string) (*WorkflowView, error)
	Retreat(ctx context.Context, id string) (*WorkflowView, error)
	JumpTo(ctx context.Context, id string, index int) (*WorkflowView, error)
	Submit(ctx context.Context, id string) (*SubmissionResult, error)
	Reset(ctx context.Context, id string) (*WorkflowView, error)
	Abandon(ctx context.Context, id string) error
}

type bookingServiceImpl struct {
	registry  *WorkflowRegistry
	submitter Submitter
}

// NewBookingService creates a new BookingService
func NewBookingService(registry *WorkflowRegistry, submitter Submitter) BookingService {
	return &bookingServiceImpl{
		registry:  registry,
		submitter: submitter,
	}
}

func (s *bookingServiceImpl) StartWorkflow(ctx context.Context) (*WorkflowView, error) {
	view := s.registry.Create().View()
	return &view, nil
}

func (s *bookingServiceImpl) GetWorkflow(ctx context.Context, id string) (*WorkflowView, error) {
	wf, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	view := wf.View()
	return &view, nil
}

func (s *bookingServiceImpl) UpdateWorkflow(ctx context.Context, id string, answers Answers) (*WorkflowView, error) {
	wf, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if _, err := wf.Apply(answers); err != nil {
		return nil, err
	}
	view := wf.View()
	return &view, nil
}

// Advance returns the view together with ErrStepInvalid when the step
// blocks, so the caller can show the field errors
func (s *bookingServiceImpl) Advance(ctx context.Context, id string) (*WorkflowView, error) {
	wf, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	view, err := wf.Advance()
	if err != nil && !errors.Is(err, ErrStepInvalid) {
		return nil, err
	}
	return &view, err
}

func (s *bookingServiceImpl) Retreat(ctx context.Context, id string) (*WorkflowView, error) {
	wf, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	view, err := wf.Retreat()
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *bookingServiceImpl) JumpTo(ctx context.Context, id string, index int) (*WorkflowView, error) {
	wf, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	view, err := wf.JumpTo(index)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *bookingServiceImpl) Submit(ctx context.Context, id string) (*SubmissionResult, error) {
	wf, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return wf.Submit(ctx, s.submitter)
}

// Reset discards the answers but keeps the workflow id
func (s *bookingServiceImpl) Reset(ctx context.Context, id string) (*WorkflowView, error) {
	wf, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	wf.Reset()
	view := wf.View()
	return &view, nil
}

func (s *bookingServiceImpl) Abandon(ctx context.Context, id string) error {
	return s.registry.Remove(id)
}
