package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
)

// failNow unwinds a scenario running outside go test.
type failNow struct{}

// Recorder is a TestingT for running scenarios outside go test. FailNow
// panics and RunScenario recovers it.
type Recorder struct {
	failures []string
	logs     []string
}

func (r *Recorder) Errorf(format string, args ...any) {
	r.failures = append(r.failures, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (r *Recorder) FailNow() {
	panic(failNow{})
}

func (r *Recorder) Logf(format string, args ...any) {
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

func (r *Recorder) Failed() bool {
	return len(r.failures) > 0
}

type Result struct {
	Scenario string
	Passed   bool
	Failures []string
	Duration time.Duration
}

// RunScenario runs s with a fresh Recorder and reports the outcome.
func RunScenario(ctx context.Context, client *recipebook.Client, logger *slog.Logger, s Scenario) (res Result) {
	rec := &Recorder{}
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			if _, ok := p.(failNow); !ok {
				rec.failures = append(rec.failures, fmt.Sprintf("panic: %v", p))
			}
			if !rec.Failed() {
				rec.failures = append(rec.failures, "scenario stopped without a reported failure")
			}
		}
		res = Result{
			Scenario: s.Name,
			Passed:   !rec.Failed(),
			Failures: rec.failures,
			Duration: time.Since(start),
		}
	}()

	New(ctx, rec, client, logger).Run(s)
	return
}
