// Command schemacheck validates data-source schema files before they are
// deployed. Each file is parsed, checked for structural rules, and resolved
// against the unit registry. With -payload, a sample payload is also built
// into an observation so missing source keys show up early.
//
// Usage:
//
//	go run ./cmd/schemacheck schemas/*.yaml
//	go run ./cmd/schemacheck -payload internal/observation/testdata/tomorrow-io.json schemas/tomorrow-io.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/levity-measure/internal/observation"
	"github.com/couchcryptid/levity-measure/internal/registry"
)

// phase tracks pass/fail for one check against one schema file.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) fail(err error) {
	// Joined errors are reported one per line.
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			p.fail(e)
		}
		return
	}
	p.errors = append(p.errors, err.Error())
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("schemacheck", flag.ContinueOnError)
	fs.SetOutput(stdout)
	payloadPath := fs.String("payload", "", "sample JSON payload to build against each schema")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stdout, "usage: schemacheck [-payload sample.json] <schema.yaml>...")
		return 2
	}

	var payload observation.Payload
	if *payloadPath != "" {
		data, err := os.ReadFile(*payloadPath)
		if err != nil {
			fmt.Fprintf(stdout, "FATAL: read payload: %v\n", err)
			return 1
		}
		if payload, err = observation.ParsePayload(data); err != nil {
			fmt.Fprintf(stdout, "FATAL: %v\n", err)
			return 1
		}
	}

	reg := registry.New()
	allPassed := true
	for _, path := range fs.Args() {
		fmt.Fprintf(stdout, "=== %s ===\n", path)
		for _, p := range checkFile(path, reg, payload) {
			report(stdout, p)
			allPassed = allPassed && p.passed()
		}
		fmt.Fprintln(stdout)
	}

	if allPassed {
		fmt.Fprintln(stdout, "All schemas passed.")
		return 0
	}
	fmt.Fprintln(stdout, "Schema check FAILED.")
	return 1
}

func checkFile(path string, reg *registry.Registry, payload observation.Payload) []*phase {
	structure := &phase{name: "structure"}
	schema, err := observation.LoadSchema(path)
	if err != nil {
		structure.fail(err)
		return []*phase{structure}
	}
	structure.notef("%d fields in %d sections", len(schema.Fields), len(schema.Sections()))

	resolution := &phase{name: "registry resolution"}
	if err := schema.Check(reg); err != nil {
		resolution.fail(err)
	}
	phases := []*phase{structure, resolution}

	if payload != nil {
		sample := &phase{name: "sample payload"}
		obs, err := observation.Build(schema, payload, reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
		if err != nil {
			sample.fail(err)
		}
		sample.notef("%d fields resolved, %d skipped", obs.FieldCount(), obs.SkippedCount())
		for _, s := range obs.Sections {
			for _, name := range s.Skipped() {
				sample.notef("skipped %s.%s", s.Name(), name)
			}
		}
		phases = append(phases, sample)
	}
	return phases
}

func report(w io.Writer, p *phase) {
	status := "\033[32mPASS\033[0m"
	if !p.passed() {
		status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
	}
	fmt.Fprintf(w, "  %-24s %s\n", p.name, status)
	for _, n := range p.notes {
		fmt.Fprintf(w, "      %s\n", n)
	}
	for i, e := range p.errors {
		fmt.Fprintf(w, "    [%d] %s\n", i+1, e)
	}
}
