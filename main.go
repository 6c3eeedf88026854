package main

import "github.com/alec-rabold/zbootspy/cmd"

// VERSION is set during build
var VERSION = "dev"

func main() {
	cmd.Execute(VERSION)
}
