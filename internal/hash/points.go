// Package hash fingerprints datasets so fits can be correlated across logs and reports.
package hash

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Points computes the xxHash64 of a paired (x, y) series.
//
// The digest covers the point count and the IEEE-754 bits of every value, so it
// distinguishes -0 from 0 and is stable across platforms.
func Points(x, y []float64) uint64 {
	d := xxhash.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(x)))
	_, _ = d.Write(buf[:])

	for i := range x {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x[i]))
		_, _ = d.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(y[i]))
		_, _ = d.Write(buf[:])
	}

	return d.Sum64()
}

// String formats a fingerprint as 16 lowercase hex digits.
func String(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
