package main

import (
	"fmt"
	"os"

	"github.com/Sparda104/scholarone-launcher/internal/cli"
)

func main() {
	cmd := cli.New()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
