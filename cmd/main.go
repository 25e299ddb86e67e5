package main

import (
	"os"

	"github.com/jkim999/lawyer-search-engine/cmd/lawsearch"
)

func main() {
	if err := lawsearch.Execute(); err != nil {
		os.Exit(1)
	}
}
