package main

import "github.com/schoolbench/srms/cmd/srms/cmd"

func main() {
	cmd.Execute()
}
