package compress

// ZstdCompressor reads and writes single Zstandard frames (.zst files).
//
// Compression and decompression are implemented in zstd_pure.go (pure Go, default) or
// zstd_cgo.go (libzstd, with cgo and the "gozstd" build tag).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(report)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
