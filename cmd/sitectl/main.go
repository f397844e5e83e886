// Command sitectl runs maintenance tasks against the site database: schema
// migrations, staff accounts, demo content and the search index.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
