package main

import "webtee/internal/cli"

func main() {
	cli.Execute()
}
