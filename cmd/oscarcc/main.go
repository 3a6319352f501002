// Command oscarcc drives the compilation pipeline: it loads a module
// (via an ir.Builder — the front end itself is out of this core's
// scope, so the bundled demo builder stands in for one), runs the
// optimizer, generates native or byte-code output, links it, and
// writes the requested artifacts.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/go6502cc/oscarcc/internal/config"
	"github.com/go6502cc/oscarcc/internal/diag"
	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/logger"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*ir.InternalError); ok {
				fmt.Fprintln(os.Stderr, ie.Error())
				os.Exit(2)
			}
			panic(r)
		}
	}()

	optOutput := getopt.StringLong("output", 'o', "a", "Output path, extension stripped and replaced per artifact")
	optTarget := getopt.StringLong("target", 't', "prg", "Target: prg, crt16, crt512")
	optPreset := getopt.StringLong("opt", 'O', "basic", "Optimization preset: none, basic, inline, auto-inline, auto-inline-all")
	optBackend := getopt.StringLong("backend", 'b', "native", "Code generator: native, bytecode")
	optDemo := getopt.StringLong("demo", 'd', "loopsum", "Demo module to build (no front end in this core): constreturn, loopsum")
	optLog := getopt.StringLong("log", 'l', "", "Log file; stderr if empty")
	optInteractive := getopt.BoolLong("interactive", 'i', "Launch the interactive inspector after compiling")
	optDebug := getopt.BoolLong("debug", 'g', "Verbose logging")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logOut io.Writer
	if *optLog != "" {
		f, err := os.Create(*optLog)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := logger.New(logOut, nil, *optDebug)
	slog.SetDefault(log)

	sink := diag.NewSink()
	cfg := config.Preset(*optPreset)
	cfg.Target = parseTarget(*optTarget)
	cfg.Native = *optBackend != "bytecode"

	pipe, err := NewPipeline(log, sink, cfg, *optDemo)
	if err != nil {
		log.Error("build failed", "error", err)
		os.Exit(1)
	}

	if err := pipe.Run(); err != nil {
		log.Error("compilation failed", "error", err)
		os.Exit(1)
	}
	if sink.ErrorCount() > 0 {
		for _, d := range sink.All() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.Kind, d.Message)
		}
		os.Exit(1)
	}

	if err := pipe.WriteArtifacts(*optOutput); err != nil {
		log.Error("writing artifacts failed", "error", err)
		os.Exit(1)
	}

	if *optInteractive {
		RunInspector(pipe)
	}
}

func parseTarget(s string) config.Target {
	switch s {
	case "crt16":
		return config.TargetCRT16
	case "crt512":
		return config.TargetCRT512
	default:
		return config.TargetPRG
	}
}
