package main

import (
	"fmt"
	"os"

	"github.com/sokinpui/mktree"
)

func main() {
	if err := mktree.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
