package ext2

import "encoding/binary"

const (
	direntOffInode    = 0x0
	direntOffRecLen   = 0x4
	direntOffNameLen  = 0x6
	direntOffFileType = 0x7
	direntOffName     = 0x8
	direntMinSize     = direntOffName
)

// FileType is the one-byte directory entry file type tag (valid only
// when the filesystem has the filetype incompatible feature, which this
// reader rejects outright — kept here for descriptive decoding only, not
// used to gate anything).
type FileType byte

// directoryEntry is one decoded linear directory record.
type directoryEntry struct {
	Inode    uint32
	FileType FileType
	Name     string
}

// parseDirectoryEntries walks a raw directory block (or concatenation of
// blocks) linearly by rec_len, stopping at the first zero rec_len or when
// it runs out of bytes.
//
// name_len and file_type are read as two separate bytes at offsets 0x6
// and 0x7 — not as one merged 16-bit field. Merging them only works when
// file_type happens to always be zero; reading it as a true uint16 would
// silently corrupt the name-length comparison on any image with
// non-zero file types.
func parseDirectoryEntries(data []byte) []directoryEntry {
	var entries []directoryEntry
	idx := 0
	for idx+direntMinSize <= len(data) {
		recLen := int(binary.LittleEndian.Uint16(data[idx+direntOffRecLen:]))
		if recLen == 0 {
			break
		}
		nameLen := int(data[idx+direntOffNameLen])
		inodeNum := binary.LittleEndian.Uint32(data[idx+direntOffInode:])
		if inodeNum != 0 && idx+direntOffName+nameLen <= len(data) {
			entries = append(entries, directoryEntry{
				Inode:    inodeNum,
				FileType: FileType(data[idx+direntOffFileType]),
				Name:     string(data[idx+direntOffName : idx+direntOffName+nameLen]),
			})
		}
		idx += recLen
	}
	return entries
}
