// cmd/autotune/main.go
package main

import (
	cmd "github.com/mwiater/autotune/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main starts the autotune CLI by delegating to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
