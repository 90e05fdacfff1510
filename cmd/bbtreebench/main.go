package main

import "github.com/meiyunyang/chipmunk-physics/cmd/bbtreebench/cmd"

func main() {
	cmd.Execute()
}
