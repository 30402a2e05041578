// Command bench runs latency benchmarks for the BBS+ library and reports
// them as text, JSON, or a rendered PNG bar chart.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/cryptoutil/bbsplus/internal/benchmarks"
)

func main() {
	name := flag.String("name", "default", "name of the benchmark run")
	messages := flag.Int("messages", 10, "number of messages to sign")
	disclosed := flag.Int("disclosed", 3, "number of messages to disclose in proofs")
	iterations := flag.Int("iterations", 100, "number of iterations for each timed operation")
	batchOps := flag.Bool("batch", true, "include BatchVerify in the run")
	output := flag.String("output", "", "output file path (empty means stdout; required for chart format)")
	format := flag.String("format", "text", "output format: text, json, or chart")

	flag.Parse()

	cfg := benchmarks.Config{
		Name:           *name,
		MessageCount:   *messages,
		DisclosedCount: *disclosed,
		Iterations:     *iterations,
		UseBatch:       *batchOps,
	}

	result, err := benchmarks.Run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bench: %v\n", err)
		os.Exit(1)
	}

	switch strings.ToLower(*format) {
	case "text":
		err = writeText(result, *output)
	case "json":
		err = writeJSON(result, *output)
	case "chart":
		err = writeChart(result, *output)
	default:
		fmt.Fprintf(os.Stderr, "bench: unknown format %q (want text, json, or chart)\n", *format)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "bench: %v\n", err)
		os.Exit(1)
	}
}

func openOutput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

func writeText(result *benchmarks.Result, path string) error {
	f, err := openOutput(path)
	if err != nil {
		return err
	}
	if f != os.Stdout {
		defer f.Close()
	}

	fmt.Fprintf(f, "benchmark: %s (messages=%d disclosed=%d iterations=%d)\n",
		result.Config.Name, result.Config.MessageCount, result.Config.DisclosedCount, result.Config.Iterations)
	for _, op := range result.Operations {
		fmt.Fprintf(f, "  %-16s mean=%-12s min=%-12s max=%s\n", op.Operation, op.Mean, op.Min, op.Max)
	}
	return nil
}

func writeJSON(result *benchmarks.Result, path string) error {
	f, err := openOutput(path)
	if err != nil {
		return err
	}
	if f != os.Stdout {
		defer f.Close()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// writeChart renders each operation's mean latency, in microseconds, as a
// bar chart PNG. A path is required since a PNG written to a terminal is
// useless.
func writeChart(result *benchmarks.Result, path string) error {
	if path == "" {
		return fmt.Errorf("chart format requires -output to be set")
	}

	bars := make([]chart.Value, len(result.Operations))
	for i, op := range result.Operations {
		bars[i] = chart.Value{
			Value: float64(op.Mean.Microseconds()),
			Label: op.Operation,
		}
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("%s: mean latency (us)", result.Config.Name),
		Height:     512,
		BarWidth:   40,
		Bars:       bars,
		YAxis: chart.YAxis{
			Name: "microseconds",
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return graph.Render(chart.PNG, f)
}
