package main

import (
	"github.com/scoutvc/leadctl/pkg/cli"
)

func main() {
	cli.Execute()
}
