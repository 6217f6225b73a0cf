// Package cli is the thin command-line front end over planconfig and
// dataflow: flag parsing in the teacher's style (ExitError, a custom flag
// Usage), then Run wires a loaded plan to an in-memory dataset and prints
// each of its queries' results.
package cli
