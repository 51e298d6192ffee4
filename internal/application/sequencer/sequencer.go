package sequencer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jobharvest/dbinit/internal/core/ports"
)

// State identifies where the sequencer is in its lifecycle. Once readiness is
// confirmed the sequencer never returns to StateWaiting.
type State uint8

const (
	StateWaiting State = iota
	StateReady
	StateRunning
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// ErrNotReady reports that the configured attempt or time budget ran out
// before every dependency became reachable.
var ErrNotReady = errors.New("dependencies did not become ready")

// Config controls the polling loop. Zero MaxAttempts and zero Timeout mean
// the sequencer waits indefinitely, which is the intended default under a
// container orchestrator.
type Config struct {
	PollInterval time.Duration
	MaxAttempts  int
	Timeout      time.Duration
}

// Sequencer blocks until every readiness probe passes, then runs one
// initialization action exactly once and reports its outcome.
type Sequencer struct {
	cfg    Config
	probes []ports.ReadinessProbe
	action ports.InitAction
	logger *logrus.Logger

	// sleep is swapped out in tests for deterministic runs.
	sleep func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	state State
}

// New creates a sequencer gated on the given probes. At least one probe and
// an action are required.
func New(cfg Config, logger *logrus.Logger, action ports.InitAction, probes ...ports.ReadinessProbe) *Sequencer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Sequencer{
		cfg:    cfg,
		probes: probes,
		action: action,
		logger: logger,
		sleep:  sleepContext,
		state:  StateWaiting,
	}
}

// State returns the current lifecycle state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sequencer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run executes the full sequence: poll until ready, run the action once,
// return its outcome. Transient probe failures are absorbed here and only
// surface as log lines; an action failure is returned unwrapped so the
// caller can propagate the child's exit status.
func (s *Sequencer) Run(ctx context.Context) error {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if err := s.waitReady(ctx); err != nil {
		s.setState(StateFailed)
		return err
	}

	s.setState(StateReady)
	s.logger.Info("dependencies ready, starting initialization")

	s.setState(StateRunning)
	if err := s.action.Run(ctx); err != nil {
		s.setState(StateFailed)
		s.logger.WithError(err).Errorf("initialization action %s failed", s.action.Name())
		return err
	}

	s.setState(StateDone)
	s.logger.Info("initialization complete")
	return nil
}

// waitReady polls every probe at the configured interval until all pass in
// the same round. There is deliberately no per-probe backoff; the interval
// paces the whole round.
func (s *Sequencer) waitReady(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		err := s.checkAll(ctx)
		if err == nil {
			return nil
		}

		// No retry follows the final attempt, so it gets a plain line.
		if s.cfg.MaxAttempts > 0 && attempt >= s.cfg.MaxAttempts {
			s.logger.WithFields(logrus.Fields{"attempt": attempt}).
				Infof("dependencies unavailable: %v", err)
			return fmt.Errorf("%w after %d attempts: %v", ErrNotReady, attempt, err)
		}
		s.logger.WithFields(logrus.Fields{"attempt": attempt}).
			Infof("dependencies unavailable, retrying in %s: %v", s.cfg.PollInterval, err)

		if err := s.sleep(ctx, s.cfg.PollInterval); err != nil {
			return fmt.Errorf("%w: %v", ErrNotReady, err)
		}
	}
}

// checkAll runs one probe round. Probes are independent, so they run
// concurrently; the round passes only when every probe passes.
func (s *Sequencer) checkAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range s.probes {
		p := p
		g.Go(func() error {
			return p.Check(gctx)
		})
	}
	return g.Wait()
}

// ExitCode maps the result of Run to a process exit status. The exit code of
// an external initialization command is preserved verbatim; any other error
// maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
