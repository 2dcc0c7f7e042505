package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/pkg/apperror"
	"github.com/clinica/prontuario-client/pkg/logger"
	"github.com/clinica/prontuario-client/pkg/metrics"
)

// Outcome is the store mutation produced by a successful remote call.
// The dispatcher runs it only when the settlement is still the latest
// issued for its action, so a superseded response can never overwrite
// a newer one.
type Outcome func()

// Call performs the remote work of one dispatch and returns the store
// mutation to apply on success.
type Call func(ctx context.Context) (Outcome, error)

type actionState struct {
	phase   model.RequestPhase
	errMsg  string
	seq     uint64
	started time.Time
}

// Dispatcher tracks the lifecycle of each logical action through
// idle -> pending -> {succeeded, failed}. A new dispatch of an action
// supersedes any uncompleted one for that action: each dispatch carries
// a monotonically increasing sequence number and settlements whose
// number is no longer the latest are discarded on arrival. In-flight
// calls are not cancelled, their results are simply dropped.
type Dispatcher struct {
	mu      sync.Mutex
	states  map[model.Action]*actionState
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewDispatcher(log *logger.Logger, m *metrics.Metrics) *Dispatcher {
	if log == nil {
		log = logger.NewLogger(nil)
	}
	return &Dispatcher{
		states:  make(map[model.Action]*actionState),
		log:     log,
		metrics: m,
	}
}

// Dispatch moves action to pending, clears its previous error and runs
// call asynchronously. The returned channel closes when this dispatch
// settles (including when its settlement is discarded as stale), which
// is what tests and synchronous callers wait on.
func (d *Dispatcher) Dispatch(ctx context.Context, action model.Action, call Call) <-chan struct{} {
	d.mu.Lock()
	st := d.state(action)
	st.seq++
	st.phase = model.PhasePending
	st.errMsg = ""
	st.started = time.Now()
	seq := st.seq
	d.mu.Unlock()

	if d.metrics != nil {
		d.metrics.DispatchesIssued.WithLabelValues(string(action)).Inc()
	}
	d.log.Zerolog().Debug().
		Str("action", string(action)).
		Uint64("seq", seq).
		Msg("dispatch pending")

	done := make(chan struct{})
	go func() {
		defer close(done)
		outcome, err := call(ctx)
		d.settle(action, seq, outcome, err)
	}()
	return done
}

// Wait is a convenience for callers that want the dispatch to behave
// synchronously: it blocks until the dispatch settles and returns the
// action's state at that moment.
func (d *Dispatcher) Wait(ctx context.Context, action model.Action, call Call) model.ActionState {
	select {
	case <-d.Dispatch(ctx, action, call):
	case <-ctx.Done():
	}
	return d.State(action)
}

// State returns the externally visible state of action.
func (d *Dispatcher) State(action model.Action) model.ActionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.states[action]
	if !ok {
		return model.ActionState{Phase: model.PhaseIdle}
	}
	return model.ActionState{Phase: st.phase, Error: st.errMsg}
}

// States returns a snapshot of every tracked action.
func (d *Dispatcher) States() map[model.Action]model.ActionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[model.Action]model.ActionState, len(d.states))
	for action, st := range d.states {
		out[action] = model.ActionState{Phase: st.phase, Error: st.errMsg}
	}
	return out
}

// Reset returns action to idle and clears its error. Settled phases
// are otherwise left in place for the view to read.
func (d *Dispatcher) Reset(action model.Action) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state(action)
	st.phase = model.PhaseIdle
	st.errMsg = ""
}

// state returns the record for action, creating it idle. Callers hold
// d.mu.
func (d *Dispatcher) state(action model.Action) *actionState {
	st, ok := d.states[action]
	if !ok {
		st = &actionState{phase: model.PhaseIdle}
		d.states[action] = st
	}
	return st
}

// settle applies one dispatch result. Settlement handlers run one at a
// time under the dispatcher lock: the outcome mutation executes inside
// the critical section, so store state is never mutated concurrently.
func (d *Dispatcher) settle(action model.Action, seq uint64, outcome Outcome, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := d.state(action)
	if seq != st.seq {
		// A later dispatch superseded this one; the later
		// settlement owns the phase.
		if d.metrics != nil {
			d.metrics.StaleSettlements.WithLabelValues(string(action)).Inc()
		}
		d.log.Zerolog().Debug().
			Str("action", string(action)).
			Uint64("seq", seq).
			Uint64("latest", st.seq).
			Msg("stale settlement discarded")
		return
	}

	outcomeLabel := "succeeded"
	if err != nil {
		st.phase = model.PhaseFailed
		st.errMsg = apperror.MessageOf(err)
		outcomeLabel = "failed"
	} else {
		st.phase = model.PhaseSucceeded
		st.errMsg = ""
		if outcome != nil {
			outcome()
		}
	}

	if d.metrics != nil {
		d.metrics.DispatchesSettled.WithLabelValues(string(action), outcomeLabel).Inc()
		d.metrics.DispatchLatency.WithLabelValues(string(action)).Observe(time.Since(st.started).Seconds())
	}
	d.log.Zerolog().Debug().
		Str("action", string(action)).
		Uint64("seq", seq).
		Str("outcome", outcomeLabel).
		Msg("dispatch settled")
}
