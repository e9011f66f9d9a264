package main

import (
	"fmt"
	"io"

	devfile "github.com/d1boot/ext2load/device/file"
	"github.com/d1boot/ext2load/filesystem/ext2"
	"github.com/d1boot/ext2load/partition/mbr"
	"github.com/d1boot/ext2load/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVar(&describeFile, "file", "", "dump the first 256 bytes of this file's contents alongside the superblock summary")
}

var describeFile string

var describeCmd = &cobra.Command{
	Use:   "describe <image-or-device>",
	Short: "Print the MBR, superblock, and volume UUID of an ext2 boot image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := devfile.OpenFromPath(args[0])
		if err != nil {
			return err
		}
		if closer, ok := dev.(io.Closer); ok {
			defer closer.Close()
		}

		table, err := mbr.Read(dev)
		if err != nil {
			return err
		}
		idx, start, err := table.FirstBootable()
		if err != nil {
			return err
		}
		fmt.Printf("bootable partition: entry %d, start lba %d\n", idx, start)

		if logical, physical, serr := devfile.SectorSizes(args[0]); serr == nil {
			fmt.Printf("device sector size: logical %d bytes, physical %d bytes\n", logical, physical)
		}

		fs, err := ext2.Mount(dev, start, nil)
		if err != nil {
			return err
		}
		sb := fs.Superblock()
		fmt.Printf("volume uuid: %s\n", sb.VolumeUUID)
		fmt.Printf("blocks: %d, block size: %d bytes, inode size: %d bytes\n",
			sb.BlocksCount, int(sb.BlockSize)*512, sb.InodeSize)
		fmt.Printf("inodes per group: %d, blocks per group: %d\n", sb.InodesPerGroup, sb.BlocksPerGroup)

		if describeFile != "" {
			ts, err := fs.InodeTimes(describeFile)
			if err != nil {
				return err
			}
			fmt.Printf("%s: mtime=%s atime=%s\n", describeFile, ts.ModTime(), ts.AccessTime())

			data, err := fs.ReadFile(describeFile)
			if _, truncated := err.(*ext2.FileTruncatedError); err != nil && !truncated {
				return err
			} else if truncated {
				fmt.Println(err)
			}
			n := len(data)
			if n > 256 {
				n = 256
			}
			fmt.Print(util.DumpByteSlice(data[:n], 16, true, true, false, nil))
		}
		return nil
	},
}
