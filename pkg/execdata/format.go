// Package execdata reads, writes and merges execution record files.
//
// The on-disk layout is the JaCoCo execution data format, version 0x1007: a
// sequence of blocks, each introduced by a one byte type.
//
//	0x01 header        char magic (0xC0C0), char version (0x1007)
//	0x10 session info  UTF id, long start, long dump (epoch millis)
//	0x11 execution     long class id, UTF class name, boolean[] probes
//
// Integers are big endian, strings use a two byte length prefix and boolean
// arrays a var-int length followed by the values packed eight per byte, least
// significant bit first. A file may hold several headers when dumps were appended.
package execdata

import "errors"

const (
	blockHeader        byte = 0x01
	blockSessionInfo   byte = 0x10
	blockExecutionData byte = 0x11

	magicNumber   uint16 = 0xC0C0
	formatVersion uint16 = 0x1007
)

var (
	// ErrInvalidFormat is returned for input that is not an execution data file.
	ErrInvalidFormat = errors.New("invalid execution data file")
	// ErrIncompatibleVersion is returned for execution data written in another format version.
	ErrIncompatibleVersion = errors.New("incompatible execution data version")
)
