package main

import "music-tagger/internal/cli"

func main() {
	cli.Execute()
}
