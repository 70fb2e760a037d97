// Package romloader reads CHIP-8 ROMs from disk. A ROM is a raw big-endian
// opcode byte stream with no header, so the loader goes by file extension
// and archive magic bytes: plain files are read as-is, and zip, gzip,
// tar.gz, 7z, and rar archives are searched for the first entry with a
// CHIP-8 extension.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extensions recognized as CHIP-8 ROM files, inside archives and out.
var romExtensions = []string{".ch8", ".c8", ".rom"}

// Magic bytes for archive detection.
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// maxROMSize is a safety limit on extracted data. CHIP-8 programs top out
// at 3584 bytes; the interpreter enforces that exact bound on load, this
// just keeps a hostile archive from ballooning in memory.
const maxROMSize = 64 * 1024

// ErrNoROMFile is returned when an archive contains no ROM file.
var ErrNoROMFile = errors.New("no ROM file found in archive")

// ErrUnsupportedFormat is returned for unrecognized file formats.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when extracted content exceeds the size limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

type formatType int

const (
	formatUnknown formatType = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// Load reads a ROM from a file path, auto-detecting archives via magic
// bytes. Returns the ROM data and its basename (useful for a window title).
func Load(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	switch detectFormat(header, path) {
	case formatRaw:
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, "", fmt.Errorf("failed to seek file: %w", err)
		}
		data, err := limitedRead(f)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read ROM: %w", err)
		}
		return data, filepath.Base(path), nil

	case formatZIP:
		return extractFromZIP(path)

	case format7z:
		return extractFrom7z(path)

	case formatGzip:
		return extractFromGzip(path)

	case formatRAR:
		return extractFromRAR(path)

	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// detectFormat determines the file format from magic bytes, falling back to
// the file extension.
func detectFormat(header []byte, path string) formatType {
	if bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEnd) {
		return formatZIP
	}
	if bytes.HasPrefix(header, magicRAR) {
		return formatRAR
	}
	if bytes.HasPrefix(header, magic7z) {
		return format7z
	}
	if bytes.HasPrefix(header, magicGzip) {
		return formatGzip
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".rar":
		return formatRAR
	}

	if isROMFile(path) {
		return formatRaw
	}

	return formatUnknown
}

// isROMFile checks if a filename has a CHIP-8 ROM extension.
func isROMFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range romExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// limitedRead reads from r up to maxROMSize bytes, erroring if exceeded.
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxROMSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
