package xcdr

import (
	"bytes"
	"sync"
)

// bytesBufPool reuses staging buffers for WriteTo.
var bytesBufPool = sync.Pool{
	New: func() any {
		// 4KB covers typical samples without regrowth.
		return bytes.NewBuffer(make([]byte, 0, BUFFER_SIZE))
	},
}
