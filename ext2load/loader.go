// Package ext2load is the top-level driver: it finds the bootable MBR
// partition, mounts its ext2 filesystem, and loads a configured set of
// named files to fixed physical-memory targets — a boot loader stage
// handing a kernel image, device tree, and supervisor binary to whatever
// runs next.
package ext2load

import (
	"github.com/d1boot/ext2load/bootmedia"
	"github.com/d1boot/ext2load/device"
	"github.com/d1boot/ext2load/internal/diag"
)

// Artifact names one file to load out of the root directory and the
// physical address it must land at.
type Artifact struct {
	Name   string
	Target uintptr
}

// Fixed SDRAM target addresses for the three artifacts a boot stage
// hands off to the next stage.
const (
	DefaultSBIOffset uintptr = 0
	DefaultFDTOffset uintptr = 0x4000000
	DefaultIMGOffset uintptr = 0x200000
)

// DefaultArtifacts is the standard load table: opensbi.bin, the device
// tree blob, and the kernel image, at their fixed SDRAM offsets.
func DefaultArtifacts() []Artifact {
	return []Artifact{
		{Name: "opensbi.bin", Target: DefaultSBIOffset},
		{Name: "fdt", Target: DefaultFDTOffset},
		{Name: "Image", Target: DefaultIMGOffset},
	}
}

// Result records what happened for each configured artifact.
type Result struct {
	Loaded   []Artifact
	Failures []ArtifactError
}

// Loader holds everything a Load call needs: the block device, the
// destination memory, where diagnostics go, and which artifacts to load.
type Loader struct {
	Dev       device.SectorReader
	Mem       Memory
	Sink      diag.Sink
	Artifacts []Artifact
}

// Load mounts the bootable partition's ext2 filesystem and loads every
// configured artifact into Mem. A per-artifact failure (not found,
// truncated, I/O error) is recorded in Result.Failures and does not stop
// the remaining artifacts from being attempted; Load only returns an
// error if every artifact failed, or if an earlier phase (MBR read,
// mount) failed outright.
func (l *Loader) Load() (*Result, error) {
	card, err := bootmedia.Mount(l.Dev, l.Sink)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, a := range l.Artifacts {
		data, truncErr, err := card.LoadFile(a.Name)
		if err != nil {
			result.Failures = append(result.Failures, ArtifactError{Artifact: a, Err: err})
			diag.Emit(l.Sink, "load", err, a.Name)
			continue
		}
		if werr := l.Mem.WriteAt(a.Target, data); werr != nil {
			result.Failures = append(result.Failures, ArtifactError{Artifact: a, Err: werr})
			diag.Emit(l.Sink, "load", werr, a.Name)
			continue
		}
		result.Loaded = append(result.Loaded, a)
		if truncErr != nil {
			// The artifact still landed in memory, partially; record it
			// as a soft failure so the caller can see it without losing
			// the bytes that were loaded.
			result.Failures = append(result.Failures, ArtifactError{Artifact: a, Err: truncErr})
		}
		diag.Emit(l.Sink, "load", nil, a.Name)
	}

	if len(result.Loaded) == 0 {
		return result, &NoArtifactsLoadedError{Failures: result.Failures}
	}
	return result, nil
}

// LoadExt2 is the single-call convenience entry point for the whole
// find-partition/mount/load-artifacts sequence.
func LoadExt2(dev device.SectorReader, mem Memory, sink diag.Sink, artifacts []Artifact) (*Result, error) {
	l := &Loader{Dev: dev, Mem: mem, Sink: sink, Artifacts: artifacts}
	return l.Load()
}
