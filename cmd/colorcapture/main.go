package main

import (
	"context"
	"os"

	"colorcapture/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCmd(cli.Options{Version: version}).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
