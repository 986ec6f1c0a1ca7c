package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"mediahub/internal/logging"
	"mediahub/internal/metrics"
)

// Result is the outcome of one report. Exactly one of Lines or Err is meaningful.
type Result struct {
	Number   int
	Name     string
	Lines    []string
	Err      error
	Duration time.Duration
}

// Run executes reports with at most concurrency running at once. A failing
// report never stops the others. Results come back in the order of reports,
// whatever order they finished in.
func Run(ctx context.Context, reports []Report, concurrency int) []Result {
	results := make([]Result, len(reports))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, rep := range reports {
		i, rep := i, rep
		g.Go(func() error {
			start := time.Now()
			lines, err := rep.Run(ctx)
			elapsed := time.Since(start)

			status := "ok"
			if err != nil {
				status = "failed"
				logging.Error().Err(err).Int("report", rep.Number).Str("name", rep.Name).Msg("report failed")
			} else {
				logging.Debug().Int("report", rep.Number).Int("lines", len(lines)).Dur("took", elapsed).Msg("report done")
			}
			metrics.ReportDuration.WithLabelValues(strconv.Itoa(rep.Number), status).Observe(elapsed.Seconds())

			results[i] = Result{Number: rep.Number, Name: rep.Name, Lines: lines, Err: err, Duration: elapsed}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Select keeps the reports whose numbers are listed, in battery order.
// An empty list keeps everything.
func Select(reports []Report, numbers []int) ([]Report, error) {
	if len(numbers) == 0 {
		return reports, nil
	}
	wanted := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		wanted[n] = true
	}

	var out []Report
	for _, r := range reports {
		if wanted[r.Number] {
			out = append(out, r)
			delete(wanted, r.Number)
		}
	}
	for n := range wanted {
		return nil, fmt.Errorf("unknown report %d", n)
	}
	return out, nil
}

// Header is the separator line that opens every report.
func Header(n int) string {
	return fmt.Sprintf("---------------------REQ %d------------------------", n)
}

// Format flattens results into output lines. A failed report keeps its
// header and gets a single failure line instead of data.
func Format(results []Result) []string {
	var lines []string
	for _, r := range results {
		lines = append(lines, Header(r.Number))
		if r.Err != nil {
			lines = append(lines, fmt.Sprintf("REQ %d failed: %v", r.Number, r.Err))
			continue
		}
		lines = append(lines, r.Lines...)
	}
	return lines
}

// WriteLines appends lines to the file at path, creating it if needed.
// The path "-" writes to stdout.
func WriteLines(path string, lines []string) error {
	if path == "-" {
		return writeTo(os.Stdout, lines)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if err := writeTo(f, lines); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeTo issues one write per line.
func writeTo(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
