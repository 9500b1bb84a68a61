// Command convert performs a one-shot unit conversion.
//
// Usage:
//
//	go run ./cmd/convert -from c -to f 21.5
//	go run ./cmd/convert -from m/s -to mph 10
//	go run ./cmd/convert -from m/s -kind wind -system metric 10
//	go run ./cmd/convert -from hPa -system imperial -json 1013.25
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/couchcryptid/levity-measure/internal/units"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	from := fs.String("from", "", "source unit tag or compound identifier (required)")
	to := fs.String("to", "", "target unit tag or compound identifier")
	system := fs.String("system", "", "localize to a unit system instead of -to: imperial or metric")
	kind := fs.String("kind", "", "compound kind used with -system, e.g. wind or precipitationRate")
	asJSON := fs.Bool("json", false, "print the result as JSON")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *from == "" || fs.NArg() != 1 || (*to == "") == (*system == "") {
		fmt.Fprintln(stderr, "usage: convert -from <unit> (-to <unit> | -system <imperial|metric>) [-kind <kind>] [-json] <value>")
		return 2
	}

	v, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		fmt.Fprintf(stderr, "invalid value %q: %v\n", fs.Arg(0), err)
		return 1
	}

	var out units.Measurement
	if *to != "" {
		out, err = units.ConvertIdentifier(v, *from, *to)
	} else {
		out, err = localize(v, *from, *kind, *system)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	fmt.Fprintln(stdout, out.String())
	return 0
}

func localize(v float64, from, kind, system string) (units.Measurement, error) {
	var prefs units.Preferences
	switch system {
	case "imperial":
		prefs = units.ImperialPreferences()
	case "metric":
		prefs = units.MetricPreferences()
	default:
		return nil, fmt.Errorf("unknown unit system %q", system)
	}

	m, err := units.Measure(v, from)
	if err != nil {
		return nil, err
	}
	switch m := m.(type) {
	case units.Value:
		return m.Localized(prefs)
	case units.Compound:
		if kind == "" {
			return nil, errors.New("-kind is required to localize a compound unit")
		}
		c, err := units.NewCompound(kind, m.Numerator(), m.Denominator())
		if err != nil {
			return nil, err
		}
		return c.Localized(prefs)
	}
	return m, nil
}
