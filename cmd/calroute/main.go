// cmd/calroute/main.go
package main

import (
	cmd "github.com/mwiater/calroute/internal/commands"
)

// main starts the calroute CLI application by delegating to the
// cobra root command defined in the calroute package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
