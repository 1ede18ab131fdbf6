package main

import "github.com/FluidXR/adbctl/cmd"

func main() {
	cmd.Execute()
}
