// internal/app/runner.go
package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"gearspire/internal/config"
)

// Command is a mutation queued for the simulation goroutine.
type Command func(g *Game) (any, error)

type result struct {
	value any
	err   error
}

type request struct {
	cmd   Command
	reply chan result
}

// TickHook runs on the simulation goroutine after every tick.
type TickHook func(g *Game, took time.Duration)

var ErrRunnerStopped = errors.New("runner stopped")

// Runner owns a Game and drives it at a fixed tick rate. External callers
// never touch the Game directly: they queue Commands and read Snapshots.
type Runner struct {
	game     *Game
	tickRate int
	cmds     chan request
	snap     atomic.Pointer[Snapshot]
	hooks    []TickHook
	done     chan struct{}
	log      zerolog.Logger
}

func NewRunner(g *Game, tickRate int, log zerolog.Logger) *Runner {
	if tickRate <= 0 {
		tickRate = config.TicksPerSecond
	}
	r := &Runner{
		game:     g,
		tickRate: tickRate,
		cmds:     make(chan request),
		done:     make(chan struct{}),
		log:      log.With().Str("component", "runner").Logger(),
	}
	r.publish()
	return r
}

// OnTick registers a hook. Call before Run.
func (r *Runner) OnTick(h TickHook) {
	r.hooks = append(r.hooks, h)
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	r.log.Info().Int("tps", r.tickRate).Msg("simulation started")
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("simulation stopped")
			return ctx.Err()
		case req := <-r.cmds:
			v, err := req.cmd(r.game)
			r.publish()
			req.reply <- result{value: v, err: err}
		case <-ticker.C:
			r.Step()
		}
	}
}

// Step advances one tick and publishes a fresh snapshot.
func (r *Runner) Step() {
	start := time.Now()
	r.game.Update()
	r.publish()
	took := time.Since(start)
	for _, h := range r.hooks {
		h(r.game, took)
	}
}

// Do queues cmd and waits for its result.
func (r *Runner) Do(ctx context.Context, cmd Command) (any, error) {
	req := request{cmd: cmd, reply: make(chan result, 1)}
	select {
	case r.cmds <- req:
	case <-r.done:
		return nil, ErrRunnerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot returns the latest published state.
func (r *Runner) Snapshot() Snapshot {
	return *r.snap.Load()
}

func (r *Runner) publish() {
	s := r.game.Snapshot()
	r.snap.Store(&s)
}
