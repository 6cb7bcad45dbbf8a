// Package main hosts the shotdate CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, wires the pipeline
// Runner to an event stream and renders that stream on the terminal. The
// runner works on its own goroutine while the command drains events, so a
// slow terminal never stalls file processing.
//
// Keep this package lean: add behavior to the internal packages first and
// surface it here through commands or flags.
package main
