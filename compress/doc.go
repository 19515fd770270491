// Package compress provides whole-file codecs for compressed dataset and report files.
//
// Every codec reads and writes the standard framed format of its algorithm, so files
// round-trip with the usual command-line tools (zstd, lz4, s2c/s2d):
//   - None: bytes are passed through unchanged
//   - Zstd: a Zstandard frame (.zst)
//   - S2: an S2 stream (.sz, .s2); Snappy-framed input is also accepted
//   - LZ4: an LZ4 frame (.lz4)
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionFromPath(path))
//	if err != nil {
//	    return err
//	}
//	plain, err := codec.Decompress(raw)
//
// # Limits
//
// Decompression stops with ErrTooLarge once the output would exceed
// MaxDecompressedSize, which guards against decompression bombs.
//
// # Build Tags
//
// The Zstd codec uses the pure-Go klauspost/compress implementation by default. Building
// with cgo and the "gozstd" tag switches to the valyala/gozstd binding of libzstd.
//
// # Thread Safety
//
// All codecs are safe for concurrent use.
package compress
