package ext2

import (
	"encoding/binary"

	"github.com/d1boot/ext2load/device"
)

const (
	numBlockMapEntries = 15
	numDirectBlocks    = 12
	blockMapBytes      = numBlockMapEntries * 4 // 60

	offInodeFileSize = 0x4
	offBlockMap      = 0x28
)

// inode is the narrow subset of an ext2 inode record this reader needs:
// the file size and its 60-byte block map (12 direct pointers, one
// single-indirect, one double-indirect, one triple-indirect).
type inode struct {
	Size     uint32
	BlockMap [numBlockMapEntries]uint32
}

func (in *inode) direct() []uint32       { return in.BlockMap[:numDirectBlocks] }
func (in *inode) singleIndirect() uint32 { return in.BlockMap[12] }
func (in *inode) doubleIndirect() uint32 { return in.BlockMap[13] }
func (in *inode) tripleIndirect() uint32 { return in.BlockMap[14] }

// locateInodeRecord reads the sector containing inode number inodeNum
// (1-based, per ext2 convention) and returns the record's bytes within
// it, along with its absolute byte offset on the device.
func locateInodeRecord(dev device.SectorReader, sb *Superblock, inodeNum uint32) (rec []byte, absOffset int64, err error) {
	bgOfInode := (inodeNum - 1) / sb.InodesPerGroup
	gd, err := readGroupDescriptor(dev, sb, bgOfInode)
	if err != nil {
		return nil, 0, err
	}

	offIntoBGInodeTable := int64(sb.InodeSize) * int64((inodeNum-1)%sb.InodesPerGroup)
	absInode := sb.partOffset.Bytes() + gd.InodeTableBlock.Sectors(sb).Bytes() + offIntoBGInodeTable
	sectorNum := device.SectorCount(absInode / device.SectorSize)
	offIntoSector := int(absInode % device.SectorSize)

	buf := make([]byte, device.SectorSize)
	if err := dev.ReadSectors(sectorNum, 1, buf); err != nil {
		return nil, 0, err
	}
	return buf[offIntoSector:], absInode, nil
}

// readInode locates and decodes inode number inodeNum (1-based, per ext2
// convention).
func readInode(dev device.SectorReader, sb *Superblock, inodeNum uint32) (*inode, error) {
	rec, absInode, err := locateInodeRecord(dev, sb, inodeNum)
	if err != nil {
		return nil, err
	}
	if len(rec) < offBlockMap+blockMapBytes {
		return nil, &BlockStraddleError{Offset: absInode, Length: offBlockMap + blockMapBytes}
	}

	var in inode
	in.Size = binary.LittleEndian.Uint32(rec[offInodeFileSize:])
	for i := 0; i < numBlockMapEntries; i++ {
		in.BlockMap[i] = binary.LittleEndian.Uint32(rec[offBlockMap+4*i:])
	}
	return &in, nil
}
