package main

import "morphviewer/cmd/morphviewer/cmd"

func main() {
	cmd.Execute()
}
