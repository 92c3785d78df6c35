package main

import "github.com/z3c0/vistos-legacy/cmd/vistos/cmd"

func main() {
	cmd.Execute()
}
