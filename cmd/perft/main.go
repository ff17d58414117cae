// Command perft walks the legal move tree of a position and counts its leaf
// nodes, the standard correctness and throughput check for move generation.
// With -divide it also breaks the total down per root move, which is how a
// wrong count is bisected against a known-good engine.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/oboro-eng/pandacore/board"
)

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "perft: "+format+"\n", args...)
	os.Exit(2)
}

func main() {
	var (
		fen     = flag.String("fen", board.StartPos, "position to count from")
		depth   = flag.Int("depth", 0, "depth in plies (required)")
		divide  = flag.Bool("divide", false, "break the count down per root move")
		cpuProf = flag.String("cpuprofile", "", "write a CPU profile to this file")
		memProf = flag.String("memprofile", "", "write a heap profile to this file after the run")
	)
	flag.Parse()

	if *depth <= 0 {
		fail("-depth must be > 0")
	}
	pos, err := board.ParseFEN(*fen)
	if err != nil {
		fail("bad -fen: %v", err)
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fail("%v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fail("starting cpu profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()
	var total uint64
	if *divide {
		counts := board.PerftDivide(pos, *depth)
		lines := make([]string, 0, len(counts))
		for m, n := range counts {
			lines = append(lines, fmt.Sprintf("%-6s %d", m, n))
			total += n
		}
		sort.Strings(lines)
		for _, line := range lines {
			fmt.Println(line)
		}
	} else {
		total = board.Perft(pos, *depth)
	}
	elapsed := time.Since(start)

	fmt.Printf("perft(%d) = %d in %v (%.1f Mnps)\n",
		*depth, total, elapsed.Round(time.Millisecond),
		float64(total)/elapsed.Seconds()/1e6)

	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			fail("%v", err)
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fail("writing heap profile: %v", err)
		}
	}
}
