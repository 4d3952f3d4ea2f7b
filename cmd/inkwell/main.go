// Command inkwell serves and manages a directory of Markdown blog posts.
package main

import (
	"fmt"
	"os"

	"github.com/ancientlore/inkwell/cmd/inkwell/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
