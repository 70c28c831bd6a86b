package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"mixanalyzer/cmd"
	"mixanalyzer/core"
)

func main() {
	root := cmd.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(core.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
