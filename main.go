package main

import (
	"os"

	"github.com/newswire/apiserver/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
