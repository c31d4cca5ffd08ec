// Command corvidb is the database's command-line entry point: serve runs
// a TCP line server accepting one statement per line, exec runs a single
// statement against a database directory and prints its result.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
