package main

import (
	"github.com/sw33tLie/degreeaudit/cmd"
)

func main() {
	cmd.Execute()
}
