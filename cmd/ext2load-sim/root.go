package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ext2load-sim",
	Short: "Simulate the ext2 boot loader stage against a disk image",
	Long: `ext2load-sim drives the same ext2 reading code a first-stage SD-card
boot loader uses, against an ordinary disk image or block device, so the
load path can be exercised and inspected on a development host.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
