package ext2

import "fmt"

// BadMagicError reports that the superblock's magic number did not match
// 0xEF53.
type BadMagicError struct {
	Got uint16
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("ext2: bad superblock magic 0x%04x, want 0xef53", e.Got)
}

// BlockSizeTooLargeError reports a block size this reader cannot handle.
// Only 1024-byte blocks (s_log_block_size == 0) are supported.
type BlockSizeTooLargeError struct {
	LogBlockSize uint32
}

func (e *BlockSizeTooLargeError) Error() string {
	return fmt.Sprintf("ext2: block size 2^%d not supported, only 1024-byte blocks", 10+e.LogBlockSize)
}

// UnsupportedFeatureError reports that the superblock's s_feature_incompat
// field has bits set this reader does not understand. Detail lists the
// named features decoded from the bitmask, not just the raw value.
type UnsupportedFeatureError struct {
	Mask   uint32
	Detail []string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("ext2: unsupported incompatible feature(s) 0x%x: %v", e.Mask, e.Detail)
}

// FileNotFoundError reports that a name was not found in a directory scan.
type FileNotFoundError struct {
	Name string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("ext2: %q not found", e.Name)
}

// FileTruncatedError reports that a file's block map reached a
// triple-indirect block this reader does not traverse, and some trailing
// blocks were therefore dropped rather than silently producing a short
// read with no indication.
type FileTruncatedError struct {
	Name          string
	BlocksDropped uint32
}

func (e *FileTruncatedError) Error() string {
	return fmt.Sprintf("ext2: %q truncated, %d block(s) beyond triple-indirect not read", e.Name, e.BlocksDropped)
}

// BlockStraddleError reports that a 60-byte inode record (or other
// fixed-size on-disk structure) would cross a sector boundary given the
// computed offset, which this reader's single-sector-read primitive
// cannot satisfy.
type BlockStraddleError struct {
	Offset int64
	Length int
}

func (e *BlockStraddleError) Error() string {
	return fmt.Sprintf("ext2: record at offset %d length %d straddles a sector boundary", e.Offset, e.Length)
}
