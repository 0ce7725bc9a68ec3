package execdata

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/klauspost/compress/zstd"
)

const zstdSuffix = ".zst"

// maxPreallocatedProbes caps the probe slice allocated before any probe byte is read.
const maxPreallocatedProbes = 1 << 16

// Reader decodes execution data blocks and hands them to the visitor callbacks.
type Reader struct {
	in *bufio.Reader
	// OnSession is called for every session info block, may be nil.
	OnSession func(core.SessionInfo)
	// OnRecord is called for every execution data block, may be nil.
	OnRecord func(*core.ExecutionRecord)
}

// NewReader returns a Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{in: bufio.NewReader(r)}
}

// Read decodes the whole stream. An empty stream is not an execution data file.
func (r *Reader) Read() error {
	first := true
	for {
		blockType, err := r.in.ReadByte()
		if err == io.EOF {
			if first {
				return ErrInvalidFormat
			}
			return nil
		}
		if err != nil {
			return err
		}
		if first && blockType != blockHeader {
			return ErrInvalidFormat
		}
		first = false
		if err := r.readBlock(blockType); err != nil {
			return err
		}
	}
}

func (r *Reader) readBlock(blockType byte) error {
	switch blockType {
	case blockHeader:
		return r.readHeader()
	case blockSessionInfo:
		return r.readSessionInfo()
	case blockExecutionData:
		return r.readExecutionData()
	default:
		return fmt.Errorf("%w: unknown block type %x", ErrInvalidFormat, blockType)
	}
}

func (r *Reader) readHeader() error {
	magic, err := r.readChar()
	if err != nil {
		return unexpected(err)
	}
	if magic != magicNumber {
		return ErrInvalidFormat
	}
	version, err := r.readChar()
	if err != nil {
		return unexpected(err)
	}
	if version != formatVersion {
		return fmt.Errorf("%w: %x", ErrIncompatibleVersion, version)
	}
	return nil
}

func (r *Reader) readSessionInfo() error {
	id, err := r.readUTF()
	if err != nil {
		return unexpected(err)
	}
	start, err := r.readLong()
	if err != nil {
		return unexpected(err)
	}
	dump, err := r.readLong()
	if err != nil {
		return unexpected(err)
	}
	if r.OnSession != nil {
		r.OnSession(core.SessionInfo{
			ID:    id,
			Start: time.UnixMilli(int64(start)),
			Dump:  time.UnixMilli(int64(dump)),
		})
	}
	return nil
}

func (r *Reader) readExecutionData() error {
	id, err := r.readLong()
	if err != nil {
		return unexpected(err)
	}
	name, err := r.readUTF()
	if err != nil {
		return unexpected(err)
	}
	probes, err := r.readBooleanArray()
	if err != nil {
		return unexpected(err)
	}
	if r.OnRecord != nil {
		r.OnRecord(&core.ExecutionRecord{ID: core.ClassID(id), Name: name, Probes: probes})
	}
	return nil
}

func (r *Reader) readChar() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r.in, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (r *Reader) readLong() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.in, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// readUTF reads a length prefixed modified UTF-8 string. The two byte NUL
// encoding is the only difference that matters for class names.
func (r *Reader) readUTF() (string, error) {
	n, err := r.readChar()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.in, buf); err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(buf), "\xc0\x80", "\x00"), nil
}

func (r *Reader) readVarInt() (int, error) {
	value := 0
	for shift := 0; ; shift += 7 {
		if shift > 28 {
			return 0, fmt.Errorf("%w: var int overflow", ErrInvalidFormat)
		}
		b, err := r.in.ReadByte()
		if err != nil {
			return 0, err
		}
		value |= int(b&0x7F) << shift
		if b&0x80 == 0 {
			return value, nil
		}
	}
}

func (r *Reader) readBooleanArray() ([]bool, error) {
	n, err := r.readVarInt()
	if err != nil {
		return nil, err
	}
	if n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: probe count %d out of range", ErrInvalidFormat, n)
	}
	probes := make([]bool, 0, min(n, maxPreallocatedProbes))
	var buffer byte
	for i := 0; i < n; i++ {
		if i%8 == 0 {
			if buffer, err = r.in.ReadByte(); err != nil {
				return nil, err
			}
		}
		probes = append(probes, buffer&0x01 != 0)
		buffer >>= 1
	}
	return probes, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

type zstdFile struct {
	*zstd.Decoder
	file *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.file.Close()
}

// Open opens an execution record file, decompressing it when the name ends in .zst.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, zstdSuffix) {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdFile{Decoder: dec, file: f}, nil
}
