package wire

import "encoding/binary"

func putUint16LE(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func putUint32LE(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func putUint64LE(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }

func getUint16LE(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func getUint32LE(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func getUint64LE(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
