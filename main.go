package main

import "github.com/bpohub/workforce/cmd"

func main() {
	cmd.Execute()
}
