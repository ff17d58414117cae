package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/oboro-eng/pandacore/engine"
	"github.com/oboro-eng/pandacore/uci"
)

func main() {
	bookPath := flag.String("book", "", "Opening book file to probe before searching")
	evalFile := flag.String("nnue", "", "ONNX network file for the NNUE evaluator")
	ortLib := flag.String("ortlib", "", "Path to the onnxruntime shared library")
	verbose := flag.Bool("v", false, "Verbose operational logging on stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	e := uci.New()
	e.SetLogger(logger)

	if *bookPath != "" {
		if err := e.LoadBook(*bookPath); err != nil {
			logger.Warn("opening book not loaded", "path", *bookPath, "err", err)
		}
	}
	if *evalFile != "" {
		if err := engine.UseNNUE(*evalFile, *ortLib); err != nil {
			logger.Warn("nnue backend not loaded, using handcrafted eval", "path", *evalFile, "err", err)
		}
	}

	if err := e.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "uci loop:", err)
		os.Exit(1)
	}
}
