package recorder

import (
	"github.com/gogpu/glfx"
)

// emit queues m on contexts that have debug output. Caller must hold r.mu.
func (r *Recorder) emit(m glfx.DebugMessage) {
	if r.version < glfx.GL43 {
		return
	}
	r.debug.Emit(m, int(r.limitInt(glfx.MaxDebugLoggedMessages, 0)))
}

// DebugMessageControl implements glfx.Native.
func (r *Recorder) DebugMessageControl(source, typ, severity glfx.Enum, ids []uint32, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DebugMessageControl")
	if !r.debug.Control(source, typ, severity, ids, enabled) {
		r.raise("DebugMessageControl", glfx.InvalidOperation)
	}
}

// DebugMessageInsert implements glfx.Native.
func (r *Recorder) DebugMessageInsert(source, typ glfx.Enum, id uint32, severity glfx.Enum, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DebugMessageInsert")
	if source != glfx.Enum(glfx.DebugSourceApplication) && source != glfx.Enum(glfx.DebugSourceThirdParty) {
		r.raise("DebugMessageInsert", glfx.InvalidEnum)
		return
	}
	if int64(len(message)) >= r.limitInt(glfx.MaxDebugMessageLength, 0) {
		r.raise("DebugMessageInsert", glfx.InvalidValue)
		return
	}
	r.emit(glfx.DebugMessage{
		Source:   glfx.DebugSource(source),
		Type:     glfx.DebugType(typ),
		ID:       id,
		Severity: glfx.DebugSeverity(severity),
		Text:     message,
	})
}

// PushDebugMessage queues a message as if the driver had produced it.
// Filters apply; text is stored as given, NULs included.
func (r *Recorder) PushDebugMessage(m glfx.DebugMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emit(m)
}

// PendingDebugMessages returns the number of queued debug messages.
func (r *Recorder) PendingDebugMessages() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.debug.Len()
}

// GetDebugMessageLog implements glfx.Native. Messages are copied oldest
// first until count is reached or the next text plus its NUL does not fit
// messageLog. Copied messages leave the queue.
func (r *Recorder) GetDebugMessageLog(count uint32, sources, types []glfx.Enum, ids []uint32, severities []glfx.Enum, lengths []int32, messageLog []byte) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetDebugMessageLog")
	return r.debug.Fetch(count, sources, types, ids, severities, lengths, messageLog)
}
