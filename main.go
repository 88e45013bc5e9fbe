// ABOUTME: Entry point for the forum CLI
// ABOUTME: Terminal client for browsing, searching and posting to the forum backend

package main

import (
	"fmt"
	"os"

	"github.com/markalston/forum-client/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
