package main

import (
	"os"

	"github.com/josephlewis42/stush/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
