package main

import "orbitshell/internal/cli"

func main() {
	cli.Execute()
}
