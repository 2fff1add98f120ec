package main

import (
	"context"
	"os"

	"github.com/grouperdev/grouper/internal/cli"
)

func main() {
	err := cli.Execute(context.Background())
	if err != nil {
		os.Exit(1)
	}
}
