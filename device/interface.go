// Package device abstracts the single point of contact with the underlying
// block device: a primitive that reads whole 512-byte sectors and nothing
// else. Every higher-level "block" read in this module is expressed in
// terms of it.
package device

// SectorSize is the fixed logical sector size of the block device, in
// bytes. The reader never negotiates a different sector size with the
// device; 512 bytes is assumed throughout.
const SectorSize = 512

// SectorCount is a count of, or address expressed in, 512-byte sectors.
// It is never bytes: callers must go through Bytes() to cross that
// boundary, so that sector-unit and byte-unit quantities cannot be mixed
// up by accident.
type SectorCount uint32

// Bytes returns the absolute byte offset corresponding to a sector address.
func (s SectorCount) Bytes() int64 {
	return int64(s) * SectorSize
}

// Add returns s advanced by n sectors.
func (s SectorCount) Add(n uint32) SectorCount {
	return s + SectorCount(n)
}

// SectorReader is the single point of device contact. It performs exactly
// count sectors of 512 bytes starting at the absolute device LBA lba,
// reading into dst. dst must be at least count*SectorSize bytes long.
//
// Implementations must treat a short or failed read as an error; there is
// no partial-success return value, matching the synchronous, blocking
// nature of the hardware primitive this wraps (no interrupts, no
// cancellation, per the concurrency model this reader assumes).
type SectorReader interface {
	ReadSectors(lba SectorCount, count uint16, dst []byte) error
}
