// Package file backs a device.SectorReader with a regular file or block
// special file on the host filesystem.
package file

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/d1boot/ext2load/device"
	"golang.org/x/sys/unix"
)

// raw ioctl request numbers, as used by the block layer on Linux; not
// exported as named constants by golang.org/x/sys/unix on every platform,
// so kept local here.
const (
	blkSSZGet = 0x1268
	blkBSZGet = 0x80081270
)

// sectorFile implements device.SectorReader over an io.ReaderAt.
type sectorFile struct {
	storage io.ReaderAt
	closer  io.Closer
}

// OpenFromPath opens a path to a block special device (e.g. /dev/mmcblk0)
// or a disk image file (e.g. /tmp/sd.img) for sector-level reads. The
// file must already exist.
func OpenFromPath(pathName string) (device.SectorReader, error) {
	if pathName == "" {
		return nil, errors.New("device/file: path must not be empty")
	}
	if _, err := os.Stat(pathName); os.IsNotExist(err) {
		return nil, fmt.Errorf("device/file: %s does not exist", pathName)
	}
	f, err := os.OpenFile(pathName, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("device/file: open %s: %w", pathName, err)
	}
	return &sectorFile{storage: f, closer: f}, nil
}

// New wraps an already-open io.ReaderAt (an in-memory image, a file the
// caller opened itself, a SubStorage-style partition view) as a
// device.SectorReader.
func New(r io.ReaderAt) device.SectorReader {
	return &sectorFile{storage: r}
}

func (f *sectorFile) ReadSectors(lba device.SectorCount, count uint16, dst []byte) error {
	want := int(count) * device.SectorSize
	if len(dst) < want {
		return fmt.Errorf("device/file: destination of %d bytes too small for %d sector(s)", len(dst), count)
	}
	n, err := f.storage.ReadAt(dst[:want], lba.Bytes())
	if err != nil && !errors.Is(err, io.EOF) {
		return &device.IOError{LBA: lba, Count: count, Err: err}
	}
	if n != want {
		return &device.IOError{LBA: lba, Count: count, Err: fmt.Errorf("short read: got %d of %d bytes", n, want)}
	}
	return nil
}

// Close releases the underlying file, if OpenFromPath opened one.
func (f *sectorFile) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

// SectorSizes reports the logical and physical sector size of the device
// or file at pathName. Plain files are assumed to be 512-byte-sector
// images. Block special files are queried via BLKSSZGET/BLKBSZGET.
func SectorSizes(pathName string) (logical, physical int, err error) {
	fi, err := os.Stat(pathName)
	if err != nil {
		return 0, 0, fmt.Errorf("device/file: stat %s: %w", pathName, err)
	}
	if fi.Mode()&os.ModeDevice == 0 {
		return device.SectorSize, device.SectorSize, nil
	}
	f, err := os.Open(pathName)
	if err != nil {
		return 0, 0, fmt.Errorf("device/file: open %s: %w", pathName, err)
	}
	defer f.Close()

	fd := int(f.Fd())
	logical, err = unix.IoctlGetInt(fd, blkSSZGet)
	if err != nil {
		return 0, 0, fmt.Errorf("device/file: BLKSSZGET %s: %w", pathName, err)
	}
	physical, err = unix.IoctlGetInt(fd, blkBSZGet)
	if err != nil {
		return 0, 0, fmt.Errorf("device/file: BLKBSZGET %s: %w", pathName, err)
	}
	return logical, physical, nil
}
