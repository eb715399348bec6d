package logger

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Log IDs only need to be unique within one deployment's log stream,
// so a ChaCha8 source seeded once at startup is enough.
func newLogIDSource() *rand.ChaCha8 {
	var seed [32]byte
	_ = binary.Read(crand.Reader, binary.LittleEndian, &seed)
	return rand.NewChaCha8(seed)
}

func (l *logger) newLogID() LogID {
	id := LogID{}
	for {
		_, _ = l.ids.Read(id[:])
		if id.IsValid() {
			break
		}
	}
	return id
}
