// Package bootmedia bundles a block device, its MBR partition table, and
// its mounted ext2 filesystem into the single object a loader needs: "the
// SD card", read-only.
package bootmedia

import (
	"github.com/d1boot/ext2load/device"
	"github.com/d1boot/ext2load/filesystem/ext2"
	"github.com/d1boot/ext2load/internal/diag"
	"github.com/d1boot/ext2load/partition/mbr"
)

// Card is a mounted read-only view of an SD card (or any block device
// presenting an MBR partition table with a bootable ext2 partition).
type Card struct {
	Dev   device.SectorReader
	Table *mbr.Table
	FS    *ext2.FileSystem
}

// Mount reads the MBR, selects the first bootable partition, and mounts
// its ext2 filesystem.
func Mount(dev device.SectorReader, sink diag.Sink) (*Card, error) {
	table, err := mbr.Read(dev)
	if err != nil {
		diag.Emit(sink, "mbr", err, "")
		return nil, err
	}

	_, start, err := table.FirstBootable()
	if err != nil {
		diag.Emit(sink, "mbr", err, "")
		return nil, err
	}
	diag.Emit(sink, "mbr", nil, "bootable partition found")

	fs, err := ext2.Mount(dev, start, sink)
	if err != nil {
		return nil, err
	}

	return &Card{Dev: dev, Table: table, FS: fs}, nil
}

// LoadFile reads the full contents of a named file out of the card's
// root directory. truncErr is non-nil (and distinct from err) when the
// file's block map reached an unsupported triple-indirect block: data is
// still valid and complete up to what was read.
func (c *Card) LoadFile(name string) (data []byte, truncErr error, err error) {
	data, err = c.FS.ReadFile(name)
	if fte, ok := err.(*ext2.FileTruncatedError); ok {
		return data, fte, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return data, nil, nil
}
