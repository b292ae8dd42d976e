package mocks

import (
	"context"

	"dispatch-booking-service/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// MockBookingService is a mock implementation of usecase.BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) view(args mock.Arguments) (*usecase.WorkflowView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.WorkflowView), args.Error(1)
}

func (m *MockBookingService) StartWorkflow(ctx context.Context) (*usecase.WorkflowView, error) {
	return m.view(m.Called(ctx))
}

func (m *MockBookingService) GetWorkflow(ctx context.Context, id string) (*usecase.WorkflowView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockBookingService) UpdateWorkflow(ctx context.Context, id string, answers usecase.Answers) (*usecase.WorkflowView, error) {
	return m.view(m.Called(ctx, id, answers))
}

func (m *MockBookingService) Advance(ctx context.Context, id string) (*usecase.WorkflowView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockBookingService) Retreat(ctx context.Context, id string) (*usecase.WorkflowView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockBookingService) JumpTo(ctx context.Context, id string, index int) (*usecase.WorkflowView, error) {
	return m.view(m.Called(ctx, id, index))
}

func (m *MockBookingService) Submit(ctx context.Context, id string) (*usecase.SubmissionResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SubmissionResult), args.Error(1)
}

func (m *MockBookingService) Reset(ctx context.Context, id string) (*usecase.WorkflowView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockBookingService) Abandon(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
