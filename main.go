package main

import "github.com/audiolibrelab/micloop/cmd"

func main() {
	cmd.Execute()
}
