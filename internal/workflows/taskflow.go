package workflows

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	flow "github.com/noneback/go-taskflow"
)

// Pipeline wraps go-taskflow's TaskFlow as a chain of steps that run one
// after the other and stop at the first failure.
type Pipeline struct {
	*flow.TaskFlow

	ctx  context.Context
	last *flow.Task

	mu  sync.Mutex
	err error
}

// NewPipeline creates an empty pipeline whose steps receive ctx
func NewPipeline(ctx context.Context, name string) *Pipeline {
	return &Pipeline{
		TaskFlow: flow.NewTaskFlow(name),
		ctx:      ctx,
	}
}

// Step appends a task that runs after every previously added step. It is
// skipped when an earlier step failed or the context is done.
func (p *Pipeline) Step(name string, fn func(ctx context.Context) error) *flow.Task {
	task := p.NewTask(name, func() {
		if p.Err() != nil {
			log.Debug("Skipping step", "step", name)
			return
		}

		if err := p.ctx.Err(); err != nil {
			p.fail(name, err)
			return
		}

		log.Debug("Running step", "step", name)
		if err := fn(p.ctx); err != nil {
			p.fail(name, err)
			return
		}

		log.Debug("Finished step", "step", name)
	})

	if p.last != nil {
		p.last.Precede(task)
	}
	p.last = task

	return task
}

func (p *Pipeline) fail(name string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err == nil {
		p.err = fmt.Errorf("%s: %w", name, err)
	}
}

// Err returns the first step failure, if any.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

// Run executes the steps on a single worker and returns the first failure.
func (p *Pipeline) Run() error {
	if p.last == nil {
		return nil
	}

	flow.NewExecutor(1).Run(p.TaskFlow).Wait()
	return p.Err()
}
