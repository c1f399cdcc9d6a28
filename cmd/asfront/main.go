package main

import (
	"os"

	"github.com/apache/royale-compiler-sub012/cmd/asfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
