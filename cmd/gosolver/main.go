// Command gosolver solves linear and quadratic equations and inequalities
// from the command line, in an interactive terminal UI, or as an HTTP
// service.
//
// Usage:
//
//	gosolver linear --a=-2 --b=4 --op=gt
//	gosolver quadratic --a=1 --b=0 --c=-4 --op=lt --plot
//	gosolver interactive
//	gosolver serve --addr :8080
//	gosolver speak "x = 2.00"
//	gosolver schema
//	echo '{"tool":"solve_linear","params":{"a":2,"b":-4}}' | gosolver tool
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
