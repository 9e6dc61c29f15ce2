package intents

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ManderO9/Gns3Configuration/pkg/notify"
	"github.com/ManderO9/Gns3Configuration/pkg/operations"
	"github.com/ManderO9/Gns3Configuration/pkg/orchestrator"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

// Executor runs one operation to completion.
type Executor interface {
	Execute(ctx context.Context, op operations.Operation) orchestrator.Outcome
}

// Status of one intent after a run.
type Status string

const (
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result pairs an intent with what happened to it.
type Result struct {
	Intent  *Intent
	Status  Status
	Outcome orchestrator.Outcome
}

// Runner applies a batch. Intents for the same console run one at a time
// in file order, and the rest of a console's intents are skipped after a
// failure. Different consoles run concurrently, up to Parallel at once.
type Runner struct {
	Exec      Executor
	Publisher notify.Publisher
	Parallel  int
}

// Run applies every intent in b and returns one result per intent, in
// file order.
func (r *Runner) Run(ctx context.Context, b *Batch) []Result {
	results := make([]Result, len(b.Intents))
	for i, in := range b.Intents {
		results[i] = Result{Intent: in, Status: StatusSkipped}
	}

	groups, order := groupByConsole(b.Intents)

	g := new(errgroup.Group)
	if r.Parallel > 0 {
		g.SetLimit(r.Parallel)
	}
	for _, console := range order {
		idx := groups[console]
		g.Go(func() error {
			r.runConsole(ctx, console, b.Intents, idx, results)
			return nil
		})
	}
	g.Wait()
	return results
}

// runConsole applies the intents at idx sequentially. Each goroutine owns
// distinct indexes of results.
func (r *Runner) runConsole(ctx context.Context, console string, intents []*Intent, idx []int, results []Result) {
	log := util.WithField("console", console)
	for n, i := range idx {
		if ctx.Err() != nil {
			log.Warnf("Cancelled with %d intents left", len(idx)-n)
			return
		}
		in := intents[i]
		if r.Publisher != nil {
			r.Publisher.Append(fmt.Sprintf("%s: %s", in.Label(), in.Operation.Description()), notify.KindInfo)
		}
		out := r.Exec.Execute(ctx, in.Operation)
		results[i].Outcome = out
		if !out.Success {
			results[i].Status = StatusFailed
			if rest := len(idx) - n - 1; rest > 0 {
				log.Warnf("%s failed, skipping %d remaining intents", in.Label(), rest)
			}
			return
		}
		results[i].Status = StatusApplied
	}
}

// groupByConsole buckets intent indexes by host:port, preserving first-seen
// console order.
func groupByConsole(intents []*Intent) (map[string][]int, []string) {
	groups := make(map[string][]int)
	var order []string
	for i, in := range intents {
		key := in.Operation.Console().String()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	return groups, order
}

// Summary counts results by status.
func Summary(results []Result) (applied, failed, skipped int) {
	for _, res := range results {
		switch res.Status {
		case StatusApplied:
			applied++
		case StatusFailed:
			failed++
		default:
			skipped++
		}
	}
	return
}
