package main

import (
	"os"

	"github.com/bdfreeman1421/WoWAnalyzer/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
