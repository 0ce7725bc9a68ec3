package execdata

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/LambdaTest/covdiff/pkg/core"
)

// Writer encodes execution data blocks. The header is written by NewWriter.
type Writer struct {
	out *bufio.Writer
}

// NewWriter writes the file header to w and returns a Writer for the following blocks.
func NewWriter(w io.Writer) (*Writer, error) {
	writer := &Writer{out: bufio.NewWriter(w)}
	if err := writer.out.WriteByte(blockHeader); err != nil {
		return nil, err
	}
	writer.writeChar(magicNumber)
	writer.writeChar(formatVersion)
	return writer, nil
}

// WriteSession writes one session info block.
func (w *Writer) WriteSession(info core.SessionInfo) error {
	if err := w.out.WriteByte(blockSessionInfo); err != nil {
		return err
	}
	if err := w.writeUTF(info.ID); err != nil {
		return err
	}
	w.writeLong(uint64(info.Start.UnixMilli()))
	w.writeLong(uint64(info.Dump.UnixMilli()))
	return nil
}

// WriteRecord writes one execution data block.
func (w *Writer) WriteRecord(rec *core.ExecutionRecord) error {
	if err := w.out.WriteByte(blockExecutionData); err != nil {
		return err
	}
	w.writeLong(uint64(rec.ID))
	if err := w.writeUTF(rec.Name); err != nil {
		return err
	}
	w.writeBooleanArray(rec.Probes)
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.out.Flush()
}

// WriteStore writes every session and record of the store to w.
func WriteStore(w io.Writer, store *Store) error {
	writer, err := NewWriter(w)
	if err != nil {
		return err
	}
	for _, info := range store.Sessions() {
		if err := writer.WriteSession(info); err != nil {
			return err
		}
	}
	for _, rec := range store.Records() {
		if err := writer.WriteRecord(rec); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func (w *Writer) writeChar(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.out.Write(b[:])
}

func (w *Writer) writeLong(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.out.Write(b[:])
}

func (w *Writer) writeUTF(s string) error {
	encoded := strings.ReplaceAll(s, "\x00", "\xc0\x80")
	if len(encoded) > math.MaxUint16 {
		return fmt.Errorf("string of %d bytes is too long for execution data", len(encoded))
	}
	w.writeChar(uint16(len(encoded)))
	_, err := w.out.WriteString(encoded)
	return err
}

func (w *Writer) writeVarInt(v int) {
	for v&^0x7F != 0 {
		w.out.WriteByte(byte(0x80 | (v & 0x7F)))
		v >>= 7
	}
	w.out.WriteByte(byte(v))
}

func (w *Writer) writeBooleanArray(values []bool) {
	w.writeVarInt(len(values))
	var buffer byte
	bufferSize := 0
	for _, v := range values {
		if v {
			buffer |= 0x01 << bufferSize
		}
		bufferSize++
		if bufferSize == 8 {
			w.out.WriteByte(buffer)
			buffer = 0
			bufferSize = 0
		}
	}
	if bufferSize > 0 {
		w.out.WriteByte(buffer)
	}
}
