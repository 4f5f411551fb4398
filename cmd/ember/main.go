// Package main is the single-binary entrypoint for Ember.
package main

import "github.com/emberfocus/ember/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
