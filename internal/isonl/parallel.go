package isonl

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

type lineResult struct {
	rec *lineRecord
	err error
}

// DecodeParallel decodes ISONL text with a pool of workers. Every ISONL
// line is self-describing, so workers classify lines independently; a
// sequential merge then folds the results in input order, which keeps block
// order and row order identical to Decode. When several lines are invalid,
// the lowest-numbered one is reported, matching Decode's fail-fast
// behavior. workers <= 0 uses GOMAXPROCS.
func DecodeParallel(ctx context.Context, text string, workers int) (*ison.Document, error) {
	lines := strings.Split(text, "\n")

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(lines) {
		workers = len(lines)
	}

	results := make([]lineResult, len(lines))
	jobs := make(chan int, len(lines))
	for i := range lines {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				rec, err := decodeLine(lines[i], i+1)
				results[i] = lineResult{rec: rec, err: err}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := newAccumulator()
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if res.rec == nil {
			continue
		}
		acc.add(res.rec)
	}
	return acc.doc, nil
}
