// Command vecclust clusters vector files with k-means.
//
// Usage:
//
//	vecclust [flags] <command> [args]
//
// Commands:
//
//	run      - cluster a vector file or CSV and print a JSON summary
//	assign   - assign vectors to the clusters of a stored model
//	inspect  - show a stored model or list its versions
//	version  - print the version
//
// Configuration is read from an optional config file (yaml, toml or json)
// and VECCLUST_ environment variables; flags take precedence.
package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/vecclust/cmd/vecclust/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
