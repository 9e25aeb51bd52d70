// Package main provides the chessprof CLI: fetch chess.com games, run
// engine analysis over them, and build a player profile.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
