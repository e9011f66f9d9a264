package ext2

import (
	"encoding/binary"

	"github.com/d1boot/ext2load/device"
)

const (
	groupDescriptorSize = 32
	offBGInodeTable     = 0x8
)

// groupDescriptor is the narrow subset of a block group descriptor this
// reader needs: the block at which the group's inode table begins.
type groupDescriptor struct {
	InodeTableBlock Blocks
}

// readGroupDescriptor locates and decodes the descriptor for block group
// bgNum: the descriptor table begins at blockGroupDescriptorTableBlock,
// and descriptors are packed 32 bytes apart with no padding.
func readGroupDescriptor(dev device.SectorReader, sb *Superblock, bgNum uint32) (*groupDescriptor, error) {
	offAbsolute := sb.partOffset.Bytes() + Blocks(blockGroupDescriptorTableBlock).Sectors(sb).Bytes() + int64(groupDescriptorSize)*int64(bgNum)
	sectorNum := device.SectorCount(offAbsolute / device.SectorSize)
	offIntoSector := int(offAbsolute % device.SectorSize)

	if offIntoSector+groupDescriptorSize > device.SectorSize {
		return nil, &BlockStraddleError{Offset: offAbsolute, Length: groupDescriptorSize}
	}

	buf := make([]byte, device.SectorSize)
	if err := dev.ReadSectors(sectorNum, 1, buf); err != nil {
		return nil, err
	}

	rec := buf[offIntoSector : offIntoSector+groupDescriptorSize]
	return &groupDescriptor{
		InodeTableBlock: Blocks(binary.LittleEndian.Uint32(rec[offBGInodeTable:])),
	}, nil
}
