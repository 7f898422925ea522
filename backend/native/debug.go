package native

import (
	"github.com/gogpu/glfx"
)

// emit queues m on the adapter's debug log. Caller must hold a.mu.
func (a *HALAdapter) emit(m glfx.DebugMessage) {
	a.debug.Emit(m, int(a.capInt(glfx.MaxDebugLoggedMessages)))
}

// DebugMessageControl implements glfx.Native.
func (a *HALAdapter) DebugMessageControl(source, typ, severity glfx.Enum, ids []uint32, enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.debug.Control(source, typ, severity, ids, enabled) {
		a.raise("DebugMessageControl", glfx.InvalidOperation)
	}
}

// DebugMessageInsert implements glfx.Native.
func (a *HALAdapter) DebugMessageInsert(source, typ glfx.Enum, id uint32, severity glfx.Enum, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if source != glfx.Enum(glfx.DebugSourceApplication) && source != glfx.Enum(glfx.DebugSourceThirdParty) {
		a.raise("DebugMessageInsert", glfx.InvalidEnum)
		return
	}
	if int64(len(message)) >= a.capInt(glfx.MaxDebugMessageLength) {
		a.raise("DebugMessageInsert", glfx.InvalidValue)
		return
	}
	a.emit(glfx.DebugMessage{
		Source:   glfx.DebugSource(source),
		Type:     glfx.DebugType(typ),
		ID:       id,
		Severity: glfx.DebugSeverity(severity),
		Text:     message,
	})
}

// GetDebugMessageLog implements glfx.Native.
func (a *HALAdapter) GetDebugMessageLog(count uint32, sources, types []glfx.Enum, ids []uint32, severities []glfx.Enum, lengths []int32, messageLog []byte) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.debug.Fetch(count, sources, types, ids, severities, lengths, messageLog)
}
