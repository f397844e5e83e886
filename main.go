package main

import (
	"fmt"
	"os"

	"github.com/Hayal27/sininning-pro-sub000/internal/bootstrap"
)

func main() {
	if err := bootstrap.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
