package compress

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/ll5fit/format"
	"github.com/arloliu/ll5fit/internal/pool"
)

// WriteFile stages the output of fill in a pooled buffer, compresses it with the codec
// selected by the suffix of path, and writes the result to path.
//
// Parameters:
//   - path: Destination file; .zst, .sz/.s2 and .lz4 select a codec, anything else is stored as is
//   - fill: Writes the uncompressed content
//
// Returns:
//   - error: From fill, the codec, or the file system
func WriteFile(path string, fill func(w io.Writer) error) error {
	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	if err := fill(buf); err != nil {
		return err
	}

	c := format.CompressionFromPath(path)
	codec, err := GetCodec(c)
	if err != nil {
		return err
	}
	out, err := codec.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("compress %s: %w", c, err)
	}

	return os.WriteFile(path, out, 0o644)
}
