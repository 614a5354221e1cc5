package main

import "github.com/tapeoutkit/backanno/cmd/backanno/cmd"

func main() {
	cmd.Execute()
}
