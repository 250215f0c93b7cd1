// Package glb implements the binary glTF container: a 12-byte header followed
// by a JSON chunk and an optional BIN chunk, all little-endian and 4-byte aligned.
package glb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Container constants.
const (
	Magic   uint32 = 0x46546C67 // "glTF"
	Version uint32 = 2

	ChunkJSON uint32 = 0x4E4F534A // "JSON"
	ChunkBIN  uint32 = 0x004E4942 // "BIN\0"

	HeaderSize      = 12
	ChunkHeaderSize = 8

	// JSONPadding and BINPadding fill each chunk to a 4-byte boundary.
	JSONPadding byte = 0x20
	BINPadding  byte = 0x00
)

// GLB format errors.
var (
	ErrInvalidMagic       = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedVersion = errors.New("unsupported GLB version")
	ErrTruncated          = errors.New("truncated GLB data")
	ErrInvalidChunk       = errors.New("invalid GLB chunk")
	ErrLengthMismatch     = errors.New("GLB length mismatch")
	ErrTooLarge           = errors.New("GLB exceeds 4 GiB")
)

// Header is the fixed 12-byte file header.
type Header struct {
	Magic   uint32
	Version uint32
	Length  uint32 // Total file length in bytes
}

// ChunkHeader precedes every chunk's payload.
type ChunkHeader struct {
	Length uint32 // Payload length, padding included
	Type   uint32
}

// Container is a decoded GLB file.
// JSON and BIN hold the chunk payloads including their padding.
type Container struct {
	Header Header
	JSON   []byte
	BIN    []byte
	HasBIN bool
}

// Size returns the total container length for the given unpadded payload sizes.
// A zero binLen means the BIN chunk is omitted.
func Size(jsonLen, binLen int) int {
	n := HeaderSize + ChunkHeaderSize + Align(jsonLen)
	if binLen > 0 {
		n += ChunkHeaderSize + Align(binLen)
	}
	return n
}

// Encode assembles a complete container in memory.
// The JSON payload is padded with spaces, the binary payload with zeros.
// An empty bin omits the BIN chunk.
func Encode(jsonData, bin []byte) ([]byte, error) {
	total := Size(len(jsonData), len(bin))
	if uint64(total) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, total)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	binary.Write(&buf, binary.LittleEndian, Header{
		Magic:   Magic,
		Version: Version,
		Length:  uint32(total),
	})
	writeChunk(&buf, ChunkJSON, jsonData, JSONPadding)
	if len(bin) > 0 {
		writeChunk(&buf, ChunkBIN, bin, BINPadding)
	}

	if buf.Len() != total {
		panic(fmt.Sprintf("glb: wrote %d bytes, header says %d", buf.Len(), total))
	}
	return buf.Bytes(), nil
}

// Write encodes the container and writes it to w in a single call.
func Write(w io.Writer, jsonData, bin []byte) (int64, error) {
	data, err := Encode(jsonData, bin)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func writeChunk(buf *bytes.Buffer, typ uint32, payload []byte, pad byte) {
	binary.Write(buf, binary.LittleEndian, ChunkHeader{
		Length: uint32(Align(len(payload))),
		Type:   typ,
	})
	buf.Write(payload)
	for n := Padding(len(payload)); n > 0; n-- {
		buf.WriteByte(pad)
	}
}

// Read parses a GLB container from data.
func Read(data []byte) (*Container, error) {
	if len(data) < HeaderSize+ChunkHeaderSize {
		return nil, ErrTruncated
	}

	r := bytes.NewReader(data)

	var c Container
	binary.Read(r, binary.LittleEndian, &c.Header)
	if c.Header.Magic != Magic {
		return nil, ErrInvalidMagic
	}
	if c.Header.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, c.Header.Version)
	}
	if int(c.Header.Length) != len(data) {
		return nil, fmt.Errorf("%w: header says %d, have %d", ErrLengthMismatch, c.Header.Length, len(data))
	}

	jsonChunk, err := readChunk(r)
	if err != nil {
		return nil, fmt.Errorf("reading JSON chunk: %w", err)
	}
	if jsonChunk.typ != ChunkJSON {
		return nil, fmt.Errorf("%w: first chunk type 0x%08X is not JSON", ErrInvalidChunk, jsonChunk.typ)
	}
	c.JSON = jsonChunk.data

	if r.Len() == 0 {
		return &c, nil
	}

	binChunk, err := readChunk(r)
	if err != nil {
		return nil, fmt.Errorf("reading BIN chunk: %w", err)
	}
	if binChunk.typ != ChunkBIN {
		return nil, fmt.Errorf("%w: second chunk type 0x%08X is not BIN", ErrInvalidChunk, binChunk.typ)
	}
	c.BIN = binChunk.data
	c.HasBIN = true

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrLengthMismatch, r.Len())
	}
	return &c, nil
}

type chunk struct {
	typ  uint32
	data []byte
}

func readChunk(r *bytes.Reader) (chunk, error) {
	var h ChunkHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return chunk{}, ErrTruncated
	}
	if h.Length%Alignment != 0 {
		return chunk{}, fmt.Errorf("%w: length %d not 4-byte aligned", ErrInvalidChunk, h.Length)
	}
	if int64(h.Length) > int64(r.Len()) {
		return chunk{}, ErrTruncated
	}
	data := make([]byte, h.Length)
	if _, err := io.ReadFull(r, data); err != nil {
		return chunk{}, ErrTruncated
	}
	return chunk{typ: h.Type, data: data}, nil
}

// TrimJSON strips the trailing space padding from a JSON chunk payload.
func TrimJSON(payload []byte) []byte {
	return bytes.TrimRight(payload, string(JSONPadding))
}
