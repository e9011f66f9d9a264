// Package testhelper provides fake device.SectorReader backends shared by
// every package's tests, so no package needs its own ad hoc fake.
package testhelper

import (
	"fmt"

	"github.com/d1boot/ext2load/device"
)

// FailFunc decides whether a read starting at lba should fail, returning
// a non-nil error to inject.
type FailFunc func(lba device.SectorCount, count uint16) error

// MemImage backs a device.SectorReader with an in-memory byte slice, as
// if it were the entire contents of an SD card image.
type MemImage struct {
	Data []byte

	// Fail, when set, is consulted on every ReadSectors call before the
	// read itself; a non-nil return is returned as the read's error.
	Fail FailFunc
}

// FailAt returns a FailFunc that fails only reads whose starting LBA
// equals lba, returning err.
func FailAt(lba device.SectorCount, err error) FailFunc {
	return func(start device.SectorCount, _ uint16) error {
		if start == lba {
			return err
		}
		return nil
	}
}

func (m *MemImage) ReadSectors(lba device.SectorCount, count uint16, dst []byte) error {
	if m.Fail != nil {
		if err := m.Fail(lba, count); err != nil {
			return err
		}
	}
	start := lba.Bytes()
	want := int64(count) * device.SectorSize
	if start < 0 || start+want > int64(len(m.Data)) {
		return fmt.Errorf("testhelper: read past end of image: lba=%d count=%d image=%d bytes", lba, count, len(m.Data))
	}
	copy(dst, m.Data[start:start+want])
	return nil
}
