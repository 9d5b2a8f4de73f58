package main

import (
	"os"

	"github.com/OolalaDXB/outrenational/cmd/erpctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
