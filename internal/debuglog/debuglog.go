// Package debuglog implements the driver side of the debug message log
// for glfx backends: the filter rules set by DebugMessageControl, the
// bounded message queue and the packed GetDebugMessageLog response.
package debuglog

import (
	"slices"

	"github.com/gogpu/glfx"
)

type rule struct {
	source, typ, severity glfx.Enum
	ids                   []uint32
	enabled               bool
}

func (r rule) matches(m glfx.DebugMessage) bool {
	if r.source != glfx.DontCare && r.source != glfx.Enum(m.Source) {
		return false
	}
	if r.typ != glfx.DontCare && r.typ != glfx.Enum(m.Type) {
		return false
	}
	if r.severity != glfx.DontCare && r.severity != glfx.Enum(m.Severity) {
		return false
	}
	return len(r.ids) == 0 || slices.Contains(r.ids, m.ID)
}

// Log is a debug message queue with its filter state. Messages of low
// severity start disabled; every other message starts enabled.
//
// Log is not safe for concurrent use.
type Log struct {
	rules    []rule
	messages []glfx.DebugMessage
	dropped  int
}

// Control adds a filter rule. Later rules override earlier ones. It
// reports false, and adds nothing, for ids combined with a wildcard source
// or type or a specific severity.
func (l *Log) Control(source, typ, severity glfx.Enum, ids []uint32, enabled bool) bool {
	if len(ids) > 0 && (source == glfx.DontCare || typ == glfx.DontCare || severity != glfx.DontCare) {
		return false
	}
	l.rules = append(l.rules, rule{
		source:   source,
		typ:      typ,
		severity: severity,
		ids:      slices.Clone(ids),
		enabled:  enabled,
	})
	return true
}

// Enabled reports whether m passes the filters.
func (l *Log) Enabled(m glfx.DebugMessage) bool {
	on := m.Severity != glfx.DebugSeverityLow
	for _, r := range l.rules {
		if r.matches(m) {
			on = r.enabled
		}
	}
	return on
}

// Emit queues m if it passes the filters and fewer than capacity messages
// are queued. Filtered messages are discarded silently; messages over
// capacity are counted as dropped.
func (l *Log) Emit(m glfx.DebugMessage, capacity int) {
	if !l.Enabled(m) {
		return
	}
	if len(l.messages) >= capacity {
		l.dropped++
		return
	}
	l.messages = append(l.messages, m)
}

// Len returns the number of queued messages.
func (l *Log) Len() int { return len(l.messages) }

// Dropped returns the number of messages lost to a full queue.
func (l *Log) Dropped() int { return l.dropped }

// Fetch moves queued messages, oldest first, into the parallel slices and
// the packed text buffer. It stops at count, at the shortest slice, or
// when the next text plus its NUL does not fit buf, and returns the number
// of messages moved. Each lengths entry includes the NUL.
func (l *Log) Fetch(count uint32, sources, types []glfx.Enum, ids []uint32, severities []glfx.Enum, lengths []int32, buf []byte) uint32 {
	limit := min(int(count), len(sources), len(types), len(ids), len(severities), len(lengths))
	n, offset := 0, 0
	for n < limit && n < len(l.messages) {
		m := l.messages[n]
		size := len(m.Text) + 1
		if offset+size > len(buf) {
			break
		}
		copy(buf[offset:], m.Text)
		buf[offset+size-1] = 0
		sources[n] = glfx.Enum(m.Source)
		types[n] = glfx.Enum(m.Type)
		ids[n] = m.ID
		severities[n] = glfx.Enum(m.Severity)
		lengths[n] = int32(size)
		offset += size
		n++
	}
	l.messages = l.messages[n:]
	return uint32(n)
}
