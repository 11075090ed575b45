package main

import (
	"fmt"
	"os"

	hurl "github.com/mizuno/hurl-go"
)

func main() {
	if err := hurl.Main(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
