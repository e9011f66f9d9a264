// Package verify checks that bytes loaded off an ext2 image match the
// bytes a test fixture placed there. The integration tests in this
// module compare with bytes.Equal and do not call it.
package verify

import (
	"fmt"

	"github.com/d1boot/ext2load/util"
)

// MismatchError reports that two byte slices differ, with a hex+ASCII
// dump of the differing regions for debugging.
type MismatchError struct {
	WantLen, GotLen int
	Dump            string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verify: mismatch (want %d bytes, got %d bytes)\n%s", e.WantLen, e.GotLen, e.Dump)
}

// Bytes compares got against want, returning nil if they are identical
// and a *MismatchError (carrying a hex dump of the first differing
// bytes) otherwise.
func Bytes(want, got []byte) error {
	different, dump := util.DumpByteSlicesWithDiffs(want, got, 16, true, true, false)
	if !different {
		return nil
	}
	return &MismatchError{WantLen: len(want), GotLen: len(got), Dump: dump}
}
