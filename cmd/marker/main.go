// Command marker runs the exam marking simulation.
//
// Usage:
//
//	marker [-config marker.yaml] [-baseline] [-trace spans.txt] <num_TAs>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/viant/marker"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("marker", flag.ContinueOnError)
	configURL := flags.String("config", "", "YAML config location (file path or afs URL)")
	baseline := flags.Bool("baseline", false, "run without mutual exclusion")
	traceOutput := flags.String("trace", "", "write OpenTelemetry spans to this file")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: %s [options] <num_TAs>\n", flags.Name())
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 1
	}
	workers, err := strconv.Atoi(flags.Arg(0))
	if err != nil || workers < 2 {
		fmt.Fprintln(os.Stderr, "Please run with at least 2 TAs.")
		flags.Usage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := marker.DefaultConfig()
	if *configURL != "" {
		if cfg, err = marker.LoadConfig(ctx, *configURL); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if *traceOutput != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Output = *traceOutput
	}
	options := []marker.Option{marker.WithConfig(cfg), marker.WithWorkers(workers)}
	if *baseline {
		options = append(options, marker.WithBaseline(true))
	}
	srv, err := marker.New(options...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if _, err = srv.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
