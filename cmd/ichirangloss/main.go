package main

import (
	"github.com/baditaflorin/go_ichiran_gloss/internal/cli"
)

func main() {
	cli.ExitOnError(cli.Execute())
}
