package main

import (
	"fmt"
	"io"

	devfile "github.com/d1boot/ext2load/device/file"
	"github.com/d1boot/ext2load/ext2load"
	"github.com/spf13/cobra"
)

// memorySize must exceed the highest default target (DefaultFDTOffset,
// 0x4000000) plus headroom for that artifact's contents.
const memorySize = 128 * 1024 * 1024

func init() {
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load <image-or-device>",
	Short: "Load the default boot artifacts from an ext2 image into simulated memory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := devfile.OpenFromPath(args[0])
		if err != nil {
			return err
		}
		if closer, ok := dev.(io.Closer); ok {
			defer closer.Close()
		}

		sink := newLogrusSink()
		mem := ext2load.NewSliceMemory(0, memorySize)

		result, err := ext2load.LoadExt2(dev, mem, sink, ext2load.DefaultArtifacts())
		if err != nil {
			return err
		}

		for _, a := range result.Loaded {
			fmt.Printf("loaded %s -> 0x%x\n", a.Name, a.Target)
		}
		for _, f := range result.Failures {
			fmt.Printf("failed %s: %v\n", f.Artifact.Name, f.Err)
		}
		return nil
	},
}
