package glfx

import (
	"log/slog"
	"sync"
)

// fakeNative answers every limit query with the same value and hands out
// sequential ids. Calls outside the methods below panic through the nil
// embedded interface.
type fakeNative struct {
	Native

	mu      sync.Mutex
	limit   int64
	next    uint32
	errs    []ErrorCode
	deleted map[ObjectKind][]uint32
	batches int
	logger  *slog.Logger

	// genErr and deleteErr are raised by the next GenObjects or
	// DeleteObjects call, which still does its work.
	genErr    ErrorCode
	deleteErr ErrorCode
}

func newFakeNative() *fakeNative {
	return &fakeNative{limit: 16, deleted: make(map[ObjectKind][]uint32)}
}

func (f *fakeNative) GetInteger(Enum) int64 { return f.limit }
func (f *fakeNative) GetFloat(Enum) float64 { return float64(f.limit) }

func (f *fakeNative) GetError() ErrorCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) == 0 {
		return NoError
	}
	code := f.errs[0]
	f.errs = f.errs[1:]
	return code
}

func (f *fakeNative) fail(code ErrorCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, code)
}

// raiseNext queues *pending, if set, and clears it. Caller holds f.mu.
func (f *fakeNative) raiseNext(pending *ErrorCode) {
	if *pending != NoError {
		f.errs = append(f.errs, *pending)
		*pending = NoError
	}
}

func (f *fakeNative) GenObjects(_ ObjectKind, ids []uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range ids {
		f.next++
		ids[i] = f.next
	}
	f.raiseNext(&f.genErr)
}

func (f *fakeNative) DeleteObjects(kind ObjectKind, ids []uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[kind] = append(f.deleted[kind], ids...)
	f.batches++
	f.raiseNext(&f.deleteErr)
}

func (f *fakeNative) SetLogger(l *slog.Logger) { f.logger = l }

func (f *fakeNative) deletedIDs(kind ObjectKind) []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint32(nil), f.deleted[kind]...)
}
