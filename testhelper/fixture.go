package testhelper

import (
	"encoding/binary"

	"github.com/d1boot/ext2load/device"
)

// Byte-level layout constants mirroring the real on-disk format,
// duplicated here (rather than imported from filesystem/ext2) so the
// fixture exercises the decoder honestly, the way a hand-built on-disk
// image would in the real world.
const (
	fixtureBlockSizeSectors = 2    // 1024-byte blocks
	fixtureBlockBytes       = fixtureBlockSizeSectors * device.SectorSize
	fixtureInodeSize        = 128
	fixtureInodesPerGroup   = 32
	fixtureBlocksPerGroup   = 100

	fixtureRootInode = 2
)

// Ext2Fixture is a minimal, hand-built MBR+ext2 disk image: one boot
// block, one superblock, one block group descriptor block, one inode
// table block, a root directory block, and one data block per extra
// file, all within a single block group.
type Ext2Fixture struct {
	Image      []byte
	PartStart  device.SectorCount
	FileInodes map[string]uint32
}

// BuildExt2Fixture lays out a complete image containing a root directory
// with the given extra files (name -> contents). Every file's contents
// must fit within a single direct block (<=1024 bytes) — callers testing
// indirect traversal build their block maps by hand instead (see
// blockmap_test.go).
func BuildExt2Fixture(files map[string][]byte) *Ext2Fixture {
	const partStart = device.SectorCount(4)

	// Block layout, relative to the partition:
	//   0: boot block (unused)
	//   1: superblock
	//   2: block group descriptor table
	//   3: inode table
	//   4: root directory data
	//   5..: one block per extra file
	const (
		blockGDT   = 2
		blockITab  = 3
		blockRoot  = 4
		firstFile  = 5
	)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}

	fileInodes := map[string]uint32{}
	nextInode := uint32(fixtureRootInode + 1)
	for _, name := range names {
		fileInodes[name] = nextInode
		nextInode++
	}

	totalBlocks := firstFile + len(files)
	img := make([]byte, int(partStart)*device.SectorSize+totalBlocks*fixtureBlockBytes)

	// MBR: one bootable partition entry at index 0.
	putMBR(img, partStart)

	// Superblock at partition-relative block 1 (sector offset 2).
	sbOff := int(partStart)*device.SectorSize + fixtureBlockBytes
	putSuperblock(img[sbOff:sbOff+1024], uint32(totalBlocks))

	// Block group descriptor table at block 2: one descriptor pointing
	// at the inode table block.
	gdtOff := int(partStart)*device.SectorSize + blockGDT*fixtureBlockBytes
	binary.LittleEndian.PutUint32(img[gdtOff+0x8:], blockITab)

	// Root directory inode (#2): direct block 0 points at blockRoot.
	rootData := buildDirectoryBlock(append([]dirEntry{
		{inode: fixtureRootInode, fileType: 2, name: "."},
		{inode: fixtureRootInode, fileType: 2, name: ".."},
	}, direntsForFiles(names, fileInodes)...))
	copy(img[int(partStart)*device.SectorSize+blockRoot*fixtureBlockBytes:], rootData)
	putInode(img, partStart, blockITab, fixtureRootInode, uint32(len(rootData)), [15]uint32{blockRoot})

	// One data block per file, plus its inode.
	for i, name := range names {
		blockNum := uint32(firstFile + i)
		data := files[name]
		off := int(partStart)*device.SectorSize + int(blockNum)*fixtureBlockBytes
		copy(img[off:], data)
		putInode(img, partStart, blockITab, fileInodes[name], uint32(len(data)), [15]uint32{blockNum})
	}

	return &Ext2Fixture{Image: img, PartStart: partStart, FileInodes: fileInodes}
}

func putMBR(img []byte, partStart device.SectorCount) {
	const entryOff = 446
	img[entryOff] = 0x80 // bootable
	img[entryOff+4] = 0x83
	binary.LittleEndian.PutUint32(img[entryOff+8:], uint32(partStart))
	img[510] = 0x55
	img[511] = 0xAA
}

func putSuperblock(sb []byte, blocksCount uint32) {
	binary.LittleEndian.PutUint32(sb[0x4:], blocksCount)
	binary.LittleEndian.PutUint32(sb[0x18:], 0) // log_block_size=0 -> 1024-byte blocks
	binary.LittleEndian.PutUint32(sb[0x20:], fixtureBlocksPerGroup)
	binary.LittleEndian.PutUint32(sb[0x28:], fixtureInodesPerGroup)
	sb[0x38] = 0x53
	sb[0x39] = 0xEF
	binary.LittleEndian.PutUint16(sb[0x58:], fixtureInodeSize)
	binary.LittleEndian.PutUint32(sb[0x60:], 0) // feature_incompat=0
}

func putInode(img []byte, partStart device.SectorCount, inodeTableBlock int, inodeNum uint32, size uint32, blockMap [15]uint32) {
	off := int(partStart)*device.SectorSize + inodeTableBlock*fixtureBlockBytes + int(inodeNum-1)*fixtureInodeSize
	rec := img[off : off+fixtureInodeSize]
	binary.LittleEndian.PutUint32(rec[0x4:], size)
	for i, b := range blockMap {
		binary.LittleEndian.PutUint32(rec[0x28+4*i:], b)
	}
}

type dirEntry struct {
	inode    uint32
	fileType byte
	name     string
}

func direntsForFiles(names []string, inodes map[string]uint32) []dirEntry {
	var out []dirEntry
	for _, n := range names {
		out = append(out, dirEntry{inode: inodes[n], fileType: 1, name: n})
	}
	return out
}

func buildDirectoryBlock(entries []dirEntry) []byte {
	buf := make([]byte, 0, fixtureBlockBytes)
	for i, e := range entries {
		recLen := 8 + len(e.name)
		recLen = (recLen + 3) &^ 3 // 4-byte align, as mke2fs does
		last := i == len(entries)-1
		if last {
			// the final entry's rec_len consumes the rest of the block.
			recLen = fixtureBlockBytes - len(buf)
		}
		entry := make([]byte, recLen)
		binary.LittleEndian.PutUint32(entry[0x0:], e.inode)
		binary.LittleEndian.PutUint16(entry[0x4:], uint16(recLen))
		entry[0x6] = byte(len(e.name))
		entry[0x7] = e.fileType
		copy(entry[0x8:], e.name)
		buf = append(buf, entry...)
	}
	return buf
}
