// Command locations is the CLI entry point.
package main

import "github.com/mesh-intelligence/locations/internal/cli"

func main() {
	cli.Execute()
}
