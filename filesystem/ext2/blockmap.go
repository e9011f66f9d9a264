package ext2

import (
	"encoding/binary"
	"fmt"

	"github.com/d1boot/ext2load/device"
)

// ScratchBlocks is the number of filesystem blocks the scratch buffer
// passed to ReadFileBlocks must hold: one for the indirect block
// currently being walked, one for the double-indirect block one level
// up. Flattening the recursive C traversal into two nested loops needs
// no more than two simultaneously-live indirect blocks at a time.
const ScratchBlocks = 2

// ReadFileBlocks reads up to maxBlocks filesystem blocks of in's data,
// in order, into dest (which must be at least maxBlocks blocks long), and
// returns the number of blocks actually read. scratch must be at least
// ScratchBlocks filesystem blocks long and must not alias dest.
//
// If in's block map reaches a non-zero triple-indirect pointer before
// maxBlocks blocks have been read, the returned blocksRead stops short
// and a *FileTruncatedError is returned alongside it — triple-indirect
// traversal is not supported.
func ReadFileBlocks(dev device.SectorReader, sb *Superblock, in *inode, maxBlocks Blocks, dest, scratch []byte) (Blocks, error) {
	blockSizeBytes := int(sb.BlockSize) * device.SectorSize
	if len(scratch) < ScratchBlocks*blockSizeBytes {
		return 0, fmt.Errorf("ext2: scratch of %d bytes smaller than %d", len(scratch), ScratchBlocks*blockSizeBytes)
	}

	budget := maxBlocks
	var blocksRead Blocks

	nDirect := Blocks(numDirectBlocks)
	if nDirect > budget {
		nDirect = budget
	}
	n, err := readBlockList(dev, sb, in.direct()[:nDirect], dest)
	blocksRead += Blocks(n)
	budget -= Blocks(n)
	if err != nil {
		return blocksRead, err
	}
	if budget <= 0 || in.singleIndirect() == 0 {
		return blocksRead, nil
	}

	n, err = readIndirectLevel1(dev, sb, in.singleIndirect(), budget, dest[int(blocksRead)*blockSizeBytes:], scratch[:blockSizeBytes])
	blocksRead += Blocks(n)
	budget -= Blocks(n)
	if err != nil {
		return blocksRead, err
	}
	if budget <= 0 || in.doubleIndirect() == 0 {
		return blocksRead, nil
	}

	n, err = readIndirectLevel2(dev, sb, in.doubleIndirect(), budget, dest[int(blocksRead)*blockSizeBytes:], scratch)
	blocksRead += Blocks(n)
	budget -= Blocks(n)
	if err != nil {
		return blocksRead, err
	}
	if budget <= 0 {
		return blocksRead, nil
	}

	if in.tripleIndirect() != 0 {
		return blocksRead, &FileTruncatedError{BlocksDropped: uint32(budget)}
	}
	return blocksRead, nil
}

// readIndirectLevel1 reads the single-indirect block at blockNum (one
// filesystem block of uint32 block pointers) and follows each pointer in
// turn.
func readIndirectLevel1(dev device.SectorReader, sb *Superblock, blockNum uint32, maxBlocks Blocks, dest, scratch []byte) (Blocks, error) {
	if err := readBlock(dev, sb, Blocks(blockNum), scratch); err != nil {
		return 0, err
	}
	pointers := blockPointers(scratch, sb)

	n := Blocks(len(pointers))
	if n > maxBlocks {
		n = maxBlocks
	}
	read, err := readBlockList(dev, sb, pointers[:n], dest)
	return Blocks(read), err
}

// readIndirectLevel2 reads the double-indirect block at blockNum (one
// filesystem block of pointers to single-indirect blocks) and follows
// each single-indirect block in turn via a second, explicit loop rather
// than recursion.
func readIndirectLevel2(dev device.SectorReader, sb *Superblock, blockNum uint32, maxBlocks Blocks, dest, scratch []byte) (Blocks, error) {
	blockSizeBytes := int(sb.BlockSize) * device.SectorSize
	if err := readBlock(dev, sb, Blocks(blockNum), scratch[:blockSizeBytes]); err != nil {
		return 0, err
	}
	pointers := blockPointers(scratch[:blockSizeBytes], sb)

	var blocksRead Blocks
	for _, p := range pointers {
		if blocksRead >= maxBlocks {
			break
		}
		if p == 0 {
			continue
		}
		n, err := readIndirectLevel1(dev, sb, p, maxBlocks-blocksRead, dest[int(blocksRead)*blockSizeBytes:], scratch[blockSizeBytes:2*blockSizeBytes])
		blocksRead += n
		if err != nil {
			return blocksRead, err
		}
	}
	return blocksRead, nil
}

// readBlockList reads at most len(blist) blocks, in order, into dest,
// stopping at the first zero entry (an unallocated hole this reader does
// not fill), and returns the number of blocks effectively read.
func readBlockList(dev device.SectorReader, sb *Superblock, blist []uint32, dest []byte) (int, error) {
	blockSizeBytes := int(sb.BlockSize) * device.SectorSize
	for i, bn := range blist {
		if bn == 0 {
			return i, nil
		}
		if err := readBlock(dev, sb, Blocks(bn), dest[i*blockSizeBytes:(i+1)*blockSizeBytes]); err != nil {
			return i, err
		}
	}
	return len(blist), nil
}

func readBlock(dev device.SectorReader, sb *Superblock, blockNum Blocks, dst []byte) error {
	return dev.ReadSectors(sb.blockLBA(blockNum), uint16(sb.BlockSize), dst)
}

// blockPointers reinterprets one filesystem block's worth of bytes as a
// slice of little-endian uint32 block pointers.
func blockPointers(b []byte, sb *Superblock) []uint32 {
	n := (int(sb.BlockSize) * device.SectorSize) / 4
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return out
}
