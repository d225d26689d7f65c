// Command folio administers portfolio content in a headless bucket.
package main

import "github.com/mesh-intelligence/folio/internal/cli"

func main() {
	cli.Execute()
}
