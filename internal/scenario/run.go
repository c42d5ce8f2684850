// SPDX-License-Identifier: MIT
package scenario

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/flattree"
)

type (
	// Config defines configuration options for Run.
	Config struct {
		Logger logrus.FieldLogger
		Debug  bool

		// FirstSeed & Seeds select the scripts, one per seed.
		FirstSeed int64
		Seeds     int

		// Length is the number of ops per script.
		Length int

		// Workers is the pool size; each worker owns the trees it replays against.
		Workers int
	}

	// Failure describes a diverging or corrupt replay.
	Failure struct {
		Seed   int64
		Step   int
		Script []Op
		Err    error
	}
)

// Errors encountered when replaying scripts.
var (
	ErrDiverged = errors.New("trees diverged")
	ErrReplay   = errors.New("replay failed")
)

// DefConfig obtains the package's Run default options.
func DefConfig() *Config {
	return &Config{
		Logger:    logrus.New(),
		FirstSeed: 1,
		Seeds:     64,
		Length:    200,
		Workers:   4,
	}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("seed %d, step %d (%s): %v", f.Seed, f.Step, f.Script[f.Step], f.Err)
}

// Unwrap retrieves the underlying error.
func (f *Failure) Unwrap() error { return f.Err }

// Report renders the failure with the script prefix that reproduces it.
func (f *Failure) Report() string {
	return fmt.Sprintf("%s\nscript:\n%s", f.Error(), spew.Sdump(f.Script[:f.Step+1]))
}

// Apply performs op on t.
//
// Identifier collisions are an expected outcome of generated scripts & are not reported.
// Expand & Collapse are skipped when their precondition does not hold.
func Apply(t *flattree.Tree[int], op Op) (err error) {
	switch op.Kind {
	case OpAppend:
		err = t.Append(op.Items...)
	case OpAppendTo:
		err = t.AppendTo(op.Target, op.Items...)
	case OpInsertBefore:
		err = t.InsertBefore(op.Target, op.Items...)
	case OpInsertAfter:
		err = t.InsertAfter(op.Target, op.Items...)
	case OpRemove:
		t.Remove(op.Target)
	case OpRemoveAll:
		t.RemoveAll()
	case OpExpand, OpCollapse:
		if parent, ok := t.Parent(op.Target); ok && !t.IsExpanded(parent) {
			return
		}
		if op.Kind == OpExpand {
			t.Expand(op.Target)
		} else {
			t.Collapse(op.Target)
		}
	case OpBatch:
		err = t.PerformBatchUpdates(func(t *flattree.Tree[int]) error {
			for _, o := range op.Batch {
				if err := Apply(t, o); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		err = fmt.Errorf("%w: unknown op %s", ErrReplay, op.Kind)
	}

	if errors.Is(err, flattree.ErrDuplicateItem) {
		err = nil
	}

	return
}

// Compare reports the first observable difference between two trees.
func Compare(want, got *flattree.Tree[int]) error {
	if w, g := want.Nodes(), got.Nodes(); !reflect.DeepEqual(w, g) {
		return fmt.Errorf("%w: nodes\nwant: %v\ngot:  %v", ErrDiverged, w, g)
	}

	if w, g := want.VisibleItems(), got.VisibleItems(); !reflect.DeepEqual(w, g) {
		return fmt.Errorf("%w: visible items\nwant: %v\ngot:  %v", ErrDiverged, w, g)
	}

	return nil
}

// Replay runs script against a full-reindex tree & an incremental one, comparing them &
// verifying the incremental one after every op.
func Replay(seed int64, script []Op) *Failure {
	want := flattree.New(flattree.WithReindexMode[int](flattree.ReindexFull))
	got := flattree.New(flattree.WithReindexMode[int](flattree.ReindexIncremental))

	for step, op := range script {
		errWant, errGot := Apply(want, op), Apply(got, op)

		err := errGot
		if (errWant == nil) != (errGot == nil) {
			err = fmt.Errorf("%w: errors, want %v, got %v", ErrDiverged, errWant, errGot)
		}
		if err == nil {
			err = Compare(want, got)
		}
		if err == nil {
			err = got.Verify()
		}

		if err != nil {
			return &Failure{Seed: seed, Step: step, Script: script, Err: err}
		}
	}

	return nil
}

// Run replays cfg.Seeds generated scripts on a worker pool, returning every failure joined.
func Run(ctx context.Context, cfg *Config) (err error) {
	if cfg == nil {
		cfg = DefConfig()
	}

	var (
		mu       sync.Mutex
		failures []error
		wg       sync.WaitGroup
	)

	pool, err := ants.NewPoolWithFunc(cfg.Workers, func(arg interface{}) {
		defer wg.Done()

		seed := arg.(int64)
		if f := Replay(seed, Generate(seed, cfg.Length)); f != nil {
			if cfg.Debug {
				cfg.Logger.Debugf("replay: %s", f.Report())
			}

			mu.Lock()
			failures = append(failures, f)
			mu.Unlock()
		}
	}, ants.WithLogger(cfg.Logger))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReplay, err)
	}
	defer pool.Release()

	for seed := cfg.FirstSeed; seed < cfg.FirstSeed+int64(cfg.Seeds); seed++ {
		if err = ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		if err = pool.Invoke(seed); err != nil {
			wg.Done()
			break
		}
	}
	wg.Wait()

	if cfg.Debug {
		cfg.Logger.Debugf("replayed %d script(s) of %d op(s), %d failure(s)", cfg.Seeds, cfg.Length, len(failures))
	}

	return errors.Join(append(failures, err)...)
}
