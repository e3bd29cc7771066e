// Package main generates CLI reference documentation from the notice-tracker
// and ntt command trees.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	nttcmd "github.com/donaldgifford/notice-tracker/cmd/ntt/cmd"
	servercmd "github.com/donaldgifford/notice-tracker/cmd/notice-tracker/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	trees := []struct {
		name string
		root *cobra.Command
	}{
		{"notice-tracker", servercmd.Root()},
		{"ntt", nttcmd.Root()},
	}

	for _, tree := range trees {
		dir := filepath.Join(*output, tree.name)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Fatalf("creating output directory: %v", err)
		}

		tree.root.DisableAutoGenTag = true
		if err := doc.GenMarkdownTree(tree.root, dir); err != nil {
			log.Fatalf("generating %s docs: %v", tree.name, err)
		}
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}
