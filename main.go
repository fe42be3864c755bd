package main

import "eventflow/cmd"

// version can be set at build time with -ldflags.
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
