// Command onshutdown-demo shows on shutdown guards inside different kinds of entry points.
package main

import (
	"context"
	"os"

	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
