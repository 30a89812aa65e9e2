package main

import (
	"github.com/Captaincapture/chromosight/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
