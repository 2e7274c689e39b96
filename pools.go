package arc

import "sync"

// sinkBufPool reuses backing arrays for ByteSink across successive
// short-lived encodes.
var sinkBufPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 256)
	},
}

// AcquireSink returns a *ByteSink backed by a pooled buffer. Release must
// be called once the caller is done with the sink's bytes.
func AcquireSink() *ByteSink {
	buf := sinkBufPool.Get().([]byte)
	return &ByteSink{buf: buf[:0]}
}

// Release returns the sink's backing array to the pool. The sink must not
// be used afterwards.
func (s *ByteSink) Release() {
	//lint:ignore SA6002 buffer reuse is the point
	sinkBufPool.Put(s.buf[:0])
	s.buf = nil
	s.size = 0
}
