package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/ll5fit/format"
)

// MaxDecompressedSize bounds the output of every Decompress call.
const MaxDecompressedSize = 256 << 20

// ErrTooLarge is returned when decompressed output would exceed MaxDecompressedSize.
var ErrTooLarge = errors.New("compress: decompressed data exceeds size limit")

// Compressor compresses a whole file.
type Compressor interface {
	// Compress returns data in the codec's framed format. The input is not modified
	// and the result is owned by the caller.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	// Decompress returns the original bytes, or an error if data is corrupted or in a
	// different format.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// readAllLimited drains r, failing with ErrTooLarge past MaxDecompressedSize.
func readAllLimited(r io.Reader, sizeHint int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(min(sizeHint, MaxDecompressedSize))

	n, err := buf.ReadFrom(io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, err
	}
	if n > MaxDecompressedSize {
		return nil, ErrTooLarge
	}

	return buf.Bytes(), nil
}
