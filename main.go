package main

import (
	"os"

	"github.com/soocke/captol-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
