// Package format defines the file-level enumerations shared by the dataset reader and
// the report writer.
package format

import (
	"path/filepath"
	"strings"
)

type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents an uncompressed file.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents a Zstandard frame (.zst).
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents an S2/Snappy stream (.sz, .s2).
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents an LZ4 frame (.lz4).
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Extension returns the file suffix for the compression type, including the dot, or ""
// for CompressionNone and unknown types.
func (c CompressionType) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionS2:
		return ".sz"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

var extensions = map[string]CompressionType{
	".zst":  CompressionZstd,
	".zstd": CompressionZstd,
	".sz":   CompressionS2,
	".s2":   CompressionS2,
	".lz4":  CompressionLZ4,
}

// CompressionFromPath detects the compression of a file from its last extension.
// Unrecognised extensions are CompressionNone.
func CompressionFromPath(path string) CompressionType {
	if c, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}

	return CompressionNone
}

// TrimCompression strips a recognised compression extension, so "data.csv.zst" becomes
// "data.csv".
func TrimCompression(path string) string {
	ext := filepath.Ext(path)
	if _, ok := extensions[strings.ToLower(ext)]; ok {
		return strings.TrimSuffix(path, ext)
	}

	return path
}
