package solclout

import (
	"encoding/binary"
)

func putUint16(dst []byte, v uint16, offset *int) {
	binary.LittleEndian.PutUint16(dst, v)
	*offset += 2
}

func getUint16(src []byte, dst *uint16, offset *int) {
	*dst = binary.LittleEndian.Uint16(src)
	*offset += 2
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func getUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src)
	*offset += 8
}
