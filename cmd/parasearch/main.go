package main

import "parasearch/internal/cli"

func main() {
	cli.Execute()
}
