// gemscope runs the diamond segment analysis from the command line.
//
// Usage:
//
//	gemscope summary [--format text|json]
//	gemscope describe --subset segment
//	gemscope export --format csv|xlsx --out DIR
//	gemscope charts --format svg|png --out DIR
//	gemscope serve
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
