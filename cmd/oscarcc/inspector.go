package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/go6502cc/oscarcc/internal/emit"
)

// inspectorCommands names the completions liner offers; kept in sync
// with the switch in runInspectorCommand below.
var inspectorCommands = []string{"procs", "block", "map", "help", "quit"}

// RunInspector starts the -i interactive REPL over an already-compiled
// pipeline: list procedures, dump a basic block's native lowering
// (native backend only), or print the linker's section map, without
// recompiling.
func RunInspector(pipe *Pipeline) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		var out []string
		for _, c := range inspectorCommands {
			if strings.HasPrefix(c, partial) {
				out = append(out, c)
			}
		}
		return out
	})

	fmt.Println("oscarcc inspector — type 'help' for commands, Ctrl-D to quit")
	for {
		command, err := line.Prompt("oscarcc> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("error reading line", "error", err)
			return
		}
		line.AppendHistory(command)
		if runInspectorCommand(pipe, command) {
			return
		}
	}
}

// runInspectorCommand executes one REPL line and reports whether the
// inspector should exit.
func runInspectorCommand(pipe *Pipeline, command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true

	case "help":
		fmt.Println("procs              list procedures in the compiled module")
		fmt.Println("block <proc> <n>   print native block n of proc (native backend only)")
		fmt.Println("map                print the linker's section/object map")
		fmt.Println("quit               exit the inspector")

	case "procs":
		for _, p := range pipe.mod.Procedures {
			fmt.Println(p.Ident.String())
		}

	case "map":
		if err := emit.WriteMap(stdout{}, pipe.linker); err != nil {
			fmt.Println("error:", err)
		}

	case "block":
		if len(fields) != 3 {
			fmt.Println("usage: block <proc> <n>")
			return false
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			fmt.Println("bad block index:", fields[2])
			return false
		}
		blocks, ok := pipe.nativeBlocks[fields[1]]
		if !ok {
			fmt.Println("no native blocks for", fields[1], "(bytecode backend, or unknown procedure)")
			return false
		}
		if n < 0 || n >= len(blocks) || blocks[n] == nil {
			fmt.Println("no such block:", n)
			return false
		}
		if err := emit.WriteNativeDisassembly(stdout{}, fields[1], blocks[n:n+1]); err != nil {
			fmt.Println("error:", err)
		}

	default:
		fmt.Println("unknown command:", fields[0])
	}
	return false
}

// stdout adapts fmt.Println's destination to the io.Writer the emit
// package's writers expect, without pulling in os.Stdout's buffering
// concerns for what's a small, interactive print.
type stdout struct{}

func (stdout) Write(p []byte) (int, error) {
	fmt.Print(string(p))
	return len(p), nil
}
