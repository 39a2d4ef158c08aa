// Package main is the single-binary entrypoint for FitProof.
package main

import "github.com/mrcaqui/fit-proof-sub000/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
