package usecase

import (
	"errors"
	"sync"
	"time"

	"dispatch-booking-service/pkg/logger"
	"dispatch-booking-service/pkg/metrics"

	"github.com/google/uuid"
)

// ErrWorkflowNotFound is returned for unknown or evicted workflow ids
var ErrWorkflowNotFound = errors.New("workflow not found")

// WorkflowRegistry owns the live booking workflows, one per attempt
type WorkflowRegistry struct {
	mu          sync.RWMutex
	workflows   map[string]*Workflow
	options     WorkflowOptions
	idleTimeout time.Duration
	logger      logger.Logger
	metrics     *metrics.Metrics
}

// NewWorkflowRegistry creates a registry that builds workflows from opts
func NewWorkflowRegistry(opts WorkflowOptions, idleTimeout time.Duration, logger logger.Logger, metrics *metrics.Metrics) *WorkflowRegistry {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &WorkflowRegistry{
		workflows:   make(map[string]*Workflow),
		options:     opts,
		idleTimeout: idleTimeout,
		logger:      logger,
		metrics:     metrics,
	}
}

// Create starts a new workflow with fresh defaults
func (r *WorkflowRegistry) Create() *Workflow {
	wf := NewWorkflow(uuid.New().String(), r.options)

	r.mu.Lock()
	r.workflows[wf.ID()] = wf
	count := len(r.workflows)
	r.mu.Unlock()

	r.setGauge(count)
	r.logger.Debug("Workflow created", "workflowId", wf.ID())
	return wf
}

func (r *WorkflowRegistry) Get(id string) (*Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wf, ok := r.workflows[id]
	if !ok {
		return nil, ErrWorkflowNotFound
	}
	return wf, nil
}

// Remove abandons and forgets a workflow
func (r *WorkflowRegistry) Remove(id string) error {
	r.mu.Lock()
	wf, ok := r.workflows[id]
	if ok {
		delete(r.workflows, id)
	}
	count := len(r.workflows)
	r.mu.Unlock()

	if !ok {
		return ErrWorkflowNotFound
	}
	wf.Close()
	r.setGauge(count)
	return nil
}

// Sweep abandons workflows idle for longer than the idle timeout and
// returns how many were evicted
func (r *WorkflowRegistry) Sweep(now time.Time) int {
	if r.idleTimeout <= 0 {
		return 0
	}

	var stale []*Workflow
	r.mu.Lock()
	for id, wf := range r.workflows {
		if now.Sub(wf.LastActivity()) > r.idleTimeout {
			stale = append(stale, wf)
			delete(r.workflows, id)
		}
	}
	count := len(r.workflows)
	r.mu.Unlock()

	for _, wf := range stale {
		wf.Close()
	}
	if len(stale) > 0 {
		r.logger.Info("Evicted idle workflows", "count", len(stale))
	}
	r.setGauge(count)
	return len(stale)
}

func (r *WorkflowRegistry) setGauge(n int) {
	if r.metrics != nil {
		r.metrics.ActiveWorkflows.Set(float64(n))
	}
}
