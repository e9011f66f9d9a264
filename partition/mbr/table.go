// Package mbr reads the classic DOS master boot record partition table:
// four fixed-size primary partition entries and a 0x55AA signature, all
// packed into the disk's first 512-byte sector.
package mbr

import (
	"encoding/binary"

	"github.com/d1boot/ext2load/device"
)

const (
	sectorSize    = device.SectorSize
	entrySize     = 16
	entriesOffset = 446
	numEntries    = 4
	signatureOff  = 510
	bootSignature = 0xAA55
	bootableFlag  = 0x80
)

// PartitionType is the one-byte MBR partition type code.
type PartitionType byte

// Partition type codes this module recognizes; the loader itself only
// cares about Bootable and Start, but these are useful for diagnostics.
const (
	TypeEmpty PartitionType = 0x00
	TypeLinux PartitionType = 0x83
)

// Partition is one of the four fixed primary partition table entries.
type Partition struct {
	Bootable bool
	Type     PartitionType
	// Start is the partition's first sector, as an absolute LBA on the
	// device.
	Start device.SectorCount
	// Size is the partition's length in sectors.
	Size uint32
}

// Table is the decoded contents of a device's MBR sector.
type Table struct {
	Partitions [numEntries]Partition
}

// Read loads and parses the MBR sector (LBA 0) from dev.
func Read(dev device.SectorReader) (*Table, error) {
	buf := make([]byte, sectorSize)
	if err := dev.ReadSectors(0, 1, buf); err != nil {
		return nil, err
	}
	return tableFromBytes(buf)
}

func tableFromBytes(b []byte) (*Table, error) {
	if len(b) < sectorSize {
		return nil, &BadSignatureError{}
	}
	sig := binary.LittleEndian.Uint16(b[signatureOff:])
	if sig != bootSignature {
		return nil, &BadSignatureError{Got: sig}
	}

	var t Table
	for i := 0; i < numEntries; i++ {
		entry := b[entriesOffset+i*entrySize : entriesOffset+(i+1)*entrySize]
		t.Partitions[i] = Partition{
			Bootable: entry[0]&bootableFlag != 0,
			Type:     PartitionType(entry[4]),
			Start:    device.SectorCount(binary.LittleEndian.Uint32(entry[8:12])),
			Size:     binary.LittleEndian.Uint32(entry[12:16]),
		}
	}
	return &t, nil
}

// FirstBootable returns the index and starting LBA of the first partition
// entry with the bootable flag set, scanning all four primary entries.
// It returns NoBootablePartitionError if none is set.
func (t *Table) FirstBootable() (index int, start device.SectorCount, err error) {
	for i, p := range t.Partitions {
		if p.Bootable {
			return i, p.Start, nil
		}
	}
	return -1, 0, &NoBootablePartitionError{}
}
