package stl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// HeaderSize is the length of the binary STL header, and the number of bytes
// inspected when detecting the encoding.
const HeaderSize = 80

// Encoding identifies the STL variant of a file
type Encoding int

const (
	// Unknown is the encoding of a mesh that was never loaded
	Unknown Encoding = iota
	// Binary is the packed little-endian format
	Binary
	// Text is the ASCII "solid ... endsolid" format
	Text
)

func (e Encoding) String() string {
	switch e {
	case Binary:
		return "binary"
	case Text:
		return "ascii"
	default:
		return "unknown"
	}
}

// DetectEncoding classifies the file at path by its first 80 bytes.
//
// A file is Text iff its header starts with "solid". Binary files whose
// header happens to start with "solid" are therefore reported as Text; they
// fail later in the text decoder.
func DetectEncoding(path string) (Encoding, error) {
	file, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("%w: failed to open file: %w", ErrIOFailure, err)
	}
	defer file.Close()

	return detect(bufio.NewReader(file))
}

// detect peeks at the header without consuming it.
func detect(br *bufio.Reader) (Encoding, error) {
	header, err := br.Peek(HeaderSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return Unknown, fmt.Errorf("%w: failed to read file header: %w", ErrIOFailure, err)
	}

	if strings.HasPrefix(decodeHeader(header), "solid") {
		return Text, nil
	}
	return Binary, nil
}

// decodeHeader turns raw header bytes into text, replacing invalid UTF-8
// sequences with U+FFFD. The UTF-8 decoder substitutes rather than failing,
// so its error is always nil.
func decodeHeader(header []byte) string {
	decoded, _ := unicode.UTF8.NewDecoder().Bytes(header)
	return string(decoded)
}

// headerName extracts a printable solid name from a binary header.
func headerName(header []byte) string {
	header = bytes.TrimRight(header, "\x00")
	return strings.TrimSpace(decodeHeader(header))
}
