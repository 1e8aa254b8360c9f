// Command gr1c is the command-line front-end for the synthesis engine
// (spec.md §6). It reads a JSON specification document, optionally
// echoes the parsed problem (-p), and otherwise runs synthesis and
// prints the realizability verdict and, if realizable, the strategy
// automaton dump.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dathath/gr1c-go/internal/realizability"
	"github.com/dathath/gr1c-go/internal/specio"
	"github.com/dathath/gr1c-go/internal/synthesis"
)

var (
	helpFlag = flag.Bool("h", false,
		"Print usage")

	parseOnlyFlag = flag.Bool("p", false,
		"Echo the parsed problem and stop before synthesis")

	regimeFlag = flag.String("regime", "all",
		"Realizability regime: 'all' (AllSysInit) or 'exist' (ExistSysInit)")

	verboseFlag = flag.Bool("v", false,
		"Log fixpoint progress at info severity")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [<flag> ...] [input-file]

Reads a JSON-encoded GR(1) specification from input-file, or from stdin
if no file is given, and decides realizability. If realizable, dumps the
strategy automaton in node-list form.

Flags:
`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *helpFlag {
		usage()
		return 1
	}

	args := flag.Args()
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "gr1c: at most one positional argument (input file) is accepted")
		usage()
		return 1
	}

	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "gr1c: %v\n", err)
			return 2
		}
		defer f.Close()
		in = f
	}

	spec, err := specio.Decode(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gr1c: %v\n", err)
		return 1
	}
	if *regimeFlag == "exist" {
		spec.Regime = realizability.ExistSysInit
	} else {
		spec.Regime = realizability.AllSysInit
	}
	spec.Verbose = spec.Verbose || *verboseFlag

	if *parseOnlyFlag {
		printParsedProblem(spec)
		return 0
	}

	result, err := synthesis.Synthesize(spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gr1c: %v\n", err)
		return 2
	}

	if result.Log.ContainsErrors() {
		fmt.Fprint(os.Stderr, result.Log.String())
	}

	if !result.Realizable {
		fmt.Printf("unrealizable (regime: %s)\n", result.Unrealizable.Regime)
		return 0
	}

	fmt.Println("realizable")
	if err := result.Store.Dump(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "gr1c: dump strategy: %v\n", err)
		return 2
	}
	return 0
}

func printParsedProblem(spec *synthesis.Specification) {
	fmt.Printf("env_vars (%d):\n", len(spec.EnvVars))
	for i, v := range spec.EnvVars {
		fmt.Printf("  %d: %s\n", i, v)
	}
	fmt.Printf("sys_vars (%d):\n", len(spec.SysVars))
	for i, v := range spec.SysVars {
		fmt.Printf("  %d: %s (%d)\n", i, v, len(spec.EnvVars)+i)
	}
	fmt.Printf("regime: %s\n", spec.Regime)
	fmt.Printf("env_trans conjuncts: %d\n", len(spec.EnvTrans))
	fmt.Printf("sys_trans conjuncts: %d\n", len(spec.SysTrans))
	fmt.Printf("env_goals: %d\n", len(spec.EnvGoals))
	fmt.Printf("sys_goals: %d\n", len(spec.SysGoals))
}
