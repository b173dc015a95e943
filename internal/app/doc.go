// Package app wires the strset command together: it builds the logger, the
// registry and the script runner from a Config and runs a script against them.
package app
