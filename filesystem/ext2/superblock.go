package ext2

import (
	"encoding/binary"
	"fmt"

	"github.com/d1boot/ext2load/device"
	"github.com/google/uuid"
)

const (
	// superblockSector is the sector offset of the superblock relative to
	// the start of the partition: the 1024-byte boot block occupies
	// sectors 0-1, the 1024-byte superblock occupies sectors 2-3.
	superblockSector = 2
	superblockBytes  = 1024

	offBlocksCount     = 0x4
	offLogBlockSize    = 0x18
	offBlocksPerGroup  = 0x20
	offInodesPerGroup  = 0x28
	offMagic           = 0x38
	offFeatureIncompat = 0x60
	offInodeSize       = 0x58
	offUUID            = 0x68

	magic = 0xEF53

	// maxBlockSizeSectors restricts this reader to 1024-byte blocks
	// (block_size == 2 sectors), matching the fixed boot-partition image
	// layout this reader targets.
	maxBlockSizeSectors = 2

	// blockGroupDescriptorTableBlock is the filesystem block at which the
	// block group descriptor table begins, for the 1024-byte-block case
	// this reader supports: block 0 is the boot block, block 1 is the
	// superblock, block 2 is the first block group descriptor table
	// block.
	blockGroupDescriptorTableBlock = 2
)

// named incompatible-feature bits, for diagnostic detail only; this
// reader rejects any incompatible feature bit being set, same as the
// original firmware, regardless of whether it is named here.
var incompatFeatureNames = map[int]string{
	0: "compression",
	1: "filetype",
	2: "needs_recovery",
	3: "journal_dev",
	4: "meta_bg",
}

// Blocks is a count of filesystem blocks, as distinct from device.SectorCount.
type Blocks uint32

// Superblock is the decoded subset of the ext2 superblock this reader
// needs: enough to locate the block group descriptor table and to
// interpret an inode's block map.
type Superblock struct {
	BlocksCount     Blocks
	BlockSize       device.SectorCount // in 512-byte sectors
	InodesPerGroup  uint32
	BlocksPerGroup  Blocks
	InodeSize       uint16
	FeatureIncompat uint32
	VolumeUUID      uuid.UUID

	// partOffset is the partition's starting LBA on the device, carried
	// alongside the superblock so every other on-disk lookup can convert
	// a block number into an absolute device sector without needing a
	// separate parameter at every call site.
	partOffset device.SectorCount
}

// Sectors converts a block count to a sector count using this
// superblock's block size.
func (b Blocks) Sectors(sb *Superblock) device.SectorCount {
	return device.SectorCount(uint32(b)) * sb.BlockSize
}

// blockLBA converts a filesystem block number, relative to the start of
// the partition, into an absolute device LBA.
func (sb *Superblock) blockLBA(b Blocks) device.SectorCount {
	return sb.partOffset + b.Sectors(sb)
}

// ReadSuperblock reads and validates the superblock of the partition
// starting at partOffset (an absolute device LBA).
func ReadSuperblock(dev device.SectorReader, partOffset device.SectorCount) (*Superblock, error) {
	buf := make([]byte, superblockBytes)
	if err := dev.ReadSectors(partOffset+superblockSector, superblockBytes/device.SectorSize, buf); err != nil {
		return nil, err
	}
	return superblockFromBytes(buf, partOffset)
}

func superblockFromBytes(b []byte, partOffset device.SectorCount) (*Superblock, error) {
	got := binary.LittleEndian.Uint16(b[offMagic:])
	if got != magic {
		return nil, &BadMagicError{Got: got}
	}

	featIncompat := binary.LittleEndian.Uint32(b[offFeatureIncompat:])
	if featIncompat != 0 {
		return nil, &UnsupportedFeatureError{Mask: featIncompat, Detail: describeFeatures(featIncompat)}
	}

	logBlockSize := binary.LittleEndian.Uint32(b[offLogBlockSize:])
	blockSizeSectors := device.SectorCount(1 << (1 + logBlockSize))
	if blockSizeSectors > maxBlockSizeSectors {
		return nil, &BlockSizeTooLargeError{LogBlockSize: logBlockSize}
	}

	volUUID, err := uuid.FromBytes(b[offUUID : offUUID+16])
	if err != nil {
		return nil, fmt.Errorf("ext2: decoding volume uuid: %w", err)
	}

	return &Superblock{
		BlocksCount:     Blocks(binary.LittleEndian.Uint32(b[offBlocksCount:])),
		BlockSize:       blockSizeSectors,
		InodesPerGroup:  binary.LittleEndian.Uint32(b[offInodesPerGroup:]),
		BlocksPerGroup:  Blocks(binary.LittleEndian.Uint32(b[offBlocksPerGroup:])),
		InodeSize:       binary.LittleEndian.Uint16(b[offInodeSize:]),
		FeatureIncompat: featIncompat,
		VolumeUUID:      volUUID,
		partOffset:      partOffset,
	}, nil
}

// describeFeatures decodes the bits of an s_feature_incompat mask into
// human-readable names, for error detail.
func describeFeatures(mask uint32) []string {
	var names []string
	for bit := 0; bit < 32; bit++ {
		if mask&(1<<uint(bit)) == 0 {
			continue
		}
		if name, ok := incompatFeatureNames[bit]; ok {
			names = append(names, name)
		} else {
			names = append(names, fmt.Sprintf("bit%d", bit))
		}
	}
	return names
}
