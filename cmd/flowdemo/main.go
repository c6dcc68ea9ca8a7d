// cmd/flowdemo/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"flowgraph/blocks"
	"flowgraph/graph"
)

// ---------- Exit codes ----------

const (
	exitOK      = 0
	exitUsage   = 1
	exitRuntime = 2
)

// ---------- Demo topology ----------

const (
	demoRate     = 48000
	demoDuration = 500 * time.Millisecond
)

func main() {
	os.Exit(run())
}

func run() int {
	src := blocks.NewConstantByteSource("demo-source", 0x2A, demoRate)
	sink := blocks.NewByteCountSink("demo-sink")

	g := graph.New(graph.Options{Debug: os.Getenv("DEBUG") != ""})
	if err := g.Connect(src, sink); err != nil {
		fmt.Fprintln(os.Stderr, "connect:", err)
		return exitUsage
	}

	if err := g.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "start:", err)
		return exitRuntime
	}

	time.Sleep(demoDuration)

	if err := g.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, "stop:", err)
		return exitRuntime
	}

	fmt.Printf("consumed %d bytes\n", sink.Count())
	return exitOK
}
