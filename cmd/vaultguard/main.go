package main

import (
	"os"

	"github.com/mmmmuhib/agentvault/cmd/vaultguard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
