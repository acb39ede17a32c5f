package scenario

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stella/learning-switch/pkg/node"
	"github.com/stella/learning-switch/pkg/switcher"
)

// Observer receives the outcome of each scenario step.
// step is the 1-based index of the step in the scenario.
type Observer interface {
	Note(step int, text string)
	Frame(step int, frame Frame, result switcher.Result)
	Advanced(step int, by, elapsed time.Duration)
	Aged(step int, removed []switcher.AgedEntry)
	Cleared(step int)
	Dump(step int, table []switcher.TableEntry)
	Stats(step int, stats switcher.Stats, tableSize int)
}

// NopObserver ignores every notification
type NopObserver struct{}

func (NopObserver) Note(int, string)                           {}
func (NopObserver) Frame(int, Frame, switcher.Result)          {}
func (NopObserver) Advanced(int, time.Duration, time.Duration) {}
func (NopObserver) Aged(int, []switcher.AgedEntry)             {}
func (NopObserver) Cleared(int)                                {}
func (NopObserver) Dump(int, []switcher.TableEntry)            {}
func (NopObserver) Stats(int, switcher.Stats, int)             {}

// Runner executes scenarios against a running node
type Runner struct {
	node     *node.Node
	observer Observer
	logger   logrus.FieldLogger
}

// NewRunner creates a runner. A nil observer or logger is replaced by a no-op one.
func NewRunner(n *node.Node, observer Observer, logger logrus.FieldLogger) *Runner {
	if observer == nil {
		observer = NopObserver{}
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Runner{
		node:     n,
		observer: observer,
		logger:   node.ComponentLogger(logger, "scenario"),
	}
}

// Run executes every step of sc in order and stops at the first failing step
func (r *Runner) Run(sc *Scenario) error {
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	sw, err := r.node.Switch()
	if err != nil {
		return err
	}

	log := r.logger.WithField("scenario", sc.Name)
	log.WithField("steps", len(sc.Steps)).Info("Running scenario")

	for i, step := range sc.Steps {
		n := i + 1
		if err := r.runStep(sw, n, step); err != nil {
			log.WithError(err).WithField("step", n).Error("Scenario step failed")
			return fmt.Errorf("scenario %s step %d: %w", sc.Name, n, err)
		}
	}

	log.Info("Scenario finished")
	return nil
}

func (r *Runner) runStep(sw *switcher.Switch, n int, step Step) error {
	if step.Note != "" {
		r.observer.Note(n, step.Note)
	}

	switch {
	case step.Frame != nil:
		result, err := sw.ProcessMAC(step.Frame.Src, step.Frame.Dst, step.Frame.Port)
		if err != nil {
			return err
		}
		r.observer.Frame(n, *step.Frame, result)

	case step.Advance != 0:
		by := time.Duration(step.Advance)
		if err := r.node.Advance(by); err != nil {
			return err
		}
		r.observer.Advanced(n, by, r.node.Clock().Elapsed())

	case step.Cleanup:
		removed, err := r.node.Cleanup()
		if err != nil {
			return err
		}
		r.observer.Aged(n, removed)

	case step.Clear:
		sw.ClearMACTable()
		r.observer.Cleared(n)

	case step.Dump:
		r.observer.Dump(n, sw.Table())

	case step.Stats:
		r.observer.Stats(n, sw.Stats(), sw.TableSize())
	}

	return nil
}

// Run builds a node for sc from cfg, runs the scenario and stops the node.
// cfg is copied before the scenario overrides are applied. A failure to stop
// the node is returned when the scenario itself succeeded.
func Run(cfg *node.Config, sc *Scenario, observer Observer, logger logrus.FieldLogger) error {
	local := *cfg
	sc.Apply(&local)

	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	n, err := node.NewNode(sc.Name, &local, logger)
	if err != nil {
		return err
	}
	if err := n.Start(); err != nil {
		return err
	}
	return runAndStop(n, sc, observer, logger)
}

func runAndStop(n *node.Node, sc *Scenario, observer Observer, logger logrus.FieldLogger) (err error) {
	defer func() {
		if stopErr := n.Stop(); stopErr != nil {
			logger.WithError(stopErr).WithField("scenario", sc.Name).Warn("Failed to stop node")
			if err == nil {
				err = fmt.Errorf("scenario %s: stop node: %w", sc.Name, stopErr)
			}
		}
	}()

	return NewRunner(n, observer, logger).Run(sc)
}
