// Package ext2 decodes just enough of the ext2 on-disk format to locate
// and read a handful of named files out of a single-block-group,
// 1024-byte-block filesystem image: the superblock, one block group
// descriptor, inode block maps (direct, single- and double-indirect),
// and a linear directory scan. It never writes, never journals, and
// never interprets extents, htree directories, or block sizes above
// 1024 bytes.
package ext2

import (
	"encoding/binary"
	"time"

	"github.com/d1boot/ext2load/device"
	"github.com/d1boot/ext2load/internal/diag"
	times "gopkg.in/djherbis/times.v1"
)

// RootInode is the fixed inode number of the root directory in every
// ext2 filesystem.
const RootInode = 2

const (
	offATime = 0x8
	offCTime = 0xc
	offMTime = 0x10
)

// FileSystem is a mounted, read-only view of one ext2 partition.
type FileSystem struct {
	dev       device.SectorReader
	sb        *Superblock
	sink      diag.Sink
	rootDir   *Directory
	rootInode *inode
}

// Mount reads and validates the superblock at partOffset (an absolute
// device LBA) and reads the root directory, returning a FileSystem ready
// for Lookup/ReadFile calls. sink may be nil.
func Mount(dev device.SectorReader, partOffset device.SectorCount, sink diag.Sink) (*FileSystem, error) {
	sb, err := ReadSuperblock(dev, partOffset)
	if err != nil {
		diag.Emit(sink, "superblock", err, "")
		return nil, err
	}
	diag.Emit(sink, "superblock", nil, "ok")

	fs := &FileSystem{dev: dev, sb: sb, sink: sink}

	rootIn, err := readInode(dev, sb, RootInode)
	if err != nil {
		diag.Emit(sink, "root-inode", err, "")
		return nil, err
	}
	fs.rootInode = rootIn

	rootData, truncErr, err := fs.readInodeData(rootIn, "/")
	if err == nil && truncErr != nil {
		err = truncErr
	}
	if err != nil {
		diag.Emit(sink, "root-directory", err, "")
		return nil, err
	}
	fs.rootDir = newDirectory(rootData)
	diag.Emit(sink, "root-directory", nil, "ok")

	return fs, nil
}

// Superblock returns the filesystem's decoded superblock.
func (fs *FileSystem) Superblock() *Superblock { return fs.sb }

// ReadFile reads the full contents of the named file out of the root
// directory, returning its bytes. A FileTruncatedError is returned
// alongside a partial (but not nil) byte slice if the file's block map
// reaches an unsupported triple-indirect block.
func (fs *FileSystem) ReadFile(name string) ([]byte, error) {
	inodeNum, err := fs.rootDir.Lookup(name)
	if err != nil {
		diag.Emit(fs.sink, "lookup", err, name)
		return nil, err
	}

	in, err := readInode(fs.dev, fs.sb, inodeNum)
	if err != nil {
		diag.Emit(fs.sink, "inode", err, name)
		return nil, err
	}

	data, truncErr, err := fs.readInodeData(in, name)
	if err != nil {
		diag.Emit(fs.sink, "read", err, name)
		return nil, err
	}
	if truncErr != nil {
		diag.Emit(fs.sink, "read", truncErr, name)
		return data, truncErr
	}
	diag.Emit(fs.sink, "read", nil, name)
	return data, nil
}

// readInodeData reads an inode's full contents (sized to its recorded
// i_size, rounded up to a whole block), returning any FileTruncatedError
// as a separate value from a hard error so the root directory read path
// can treat it as fatal while ReadFile can surface it to the caller.
func (fs *FileSystem) readInodeData(in *inode, name string) (data []byte, truncErr error, err error) {
	blockSizeBytes := int(fs.sb.BlockSize) * device.SectorSize
	blockCount := Blocks((in.Size + uint32(blockSizeBytes) - 1) / uint32(blockSizeBytes))

	dest := make([]byte, int(blockCount)*blockSizeBytes)
	scratch := make([]byte, ScratchBlocks*blockSizeBytes)

	blocksRead, err := ReadFileBlocks(fs.dev, fs.sb, in, blockCount, dest, scratch)
	if err != nil {
		if fte, ok := err.(*FileTruncatedError); ok {
			fte.Name = name
			return dest[:minInt(int(in.Size), int(blocksRead)*blockSizeBytes)], fte, nil
		}
		return nil, nil, err
	}
	if int64(in.Size) > int64(len(dest)) {
		return dest, nil, nil
	}
	return dest[:in.Size], nil, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// InodeTimes decodes the access/change/modify timestamps of the named
// file's inode record. This is a describe-only diagnostic: the hot load
// path never calls it.
func (fs *FileSystem) InodeTimes(name string) (times.Timespec, error) {
	inodeNum, err := fs.rootDir.Lookup(name)
	if err != nil {
		return nil, err
	}
	return fs.readInodeTimes(inodeNum)
}

func (fs *FileSystem) readInodeTimes(inodeNum uint32) (times.Timespec, error) {
	rec, _, err := locateInodeRecord(fs.dev, fs.sb, inodeNum)
	if err != nil {
		return nil, err
	}

	return inodeTimespec{
		atime: unixTime(binary.LittleEndian.Uint32(rec[offATime:])),
		ctime: unixTime(binary.LittleEndian.Uint32(rec[offCTime:])),
		mtime: unixTime(binary.LittleEndian.Uint32(rec[offMTime:])),
	}, nil
}

func unixTime(epoch uint32) time.Time {
	return time.Unix(int64(epoch), 0).UTC()
}

// inodeTimespec implements times.Timespec directly from ext2 inode
// fields, rather than from an os.FileInfo the way times.Stat would —
// there is no host file here, only the raw on-disk record.
type inodeTimespec struct {
	atime, ctime, mtime time.Time
}

func (t inodeTimespec) ModTime() time.Time    { return t.mtime }
func (t inodeTimespec) AccessTime() time.Time { return t.atime }
func (t inodeTimespec) ChangeTime() time.Time { return t.ctime }
func (t inodeTimespec) HasChangeTime() bool   { return true }

// BirthTime and HasBirthTime satisfy times.Timespec; ext2 inodes carry no
// birth time in the fields this reader decodes.
func (t inodeTimespec) BirthTime() time.Time { return time.Time{} }
func (t inodeTimespec) HasBirthTime() bool   { return false }
