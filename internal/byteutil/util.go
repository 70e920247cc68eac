package byteutil

import "encoding/binary"

// EncodeInt64ToBytes returns the big-endian form of id, usable as an ordered bolt key.
func EncodeInt64ToBytes(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}
