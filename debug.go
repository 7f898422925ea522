package glfx

import (
	"fmt"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// DontCare is the wildcard accepted by SetDebugMessageControl for source,
// type and severity.
const DontCare Enum = 0x1100

// DebugSource identifies what produced a debug message.
type DebugSource Enum

// Debug message sources.
const (
	DebugSourceAPI            DebugSource = 0x8246
	DebugSourceWindowSystem   DebugSource = 0x8247
	DebugSourceShaderCompiler DebugSource = 0x8248
	DebugSourceThirdParty     DebugSource = 0x8249
	DebugSourceApplication    DebugSource = 0x824A
	DebugSourceOther          DebugSource = 0x824B
	DebugSourceDontCare       DebugSource = DebugSource(DontCare)
)

func (s DebugSource) String() string {
	switch s {
	case DebugSourceAPI:
		return "api"
	case DebugSourceWindowSystem:
		return "window-system"
	case DebugSourceShaderCompiler:
		return "shader-compiler"
	case DebugSourceThirdParty:
		return "third-party"
	case DebugSourceApplication:
		return "application"
	case DebugSourceOther:
		return "other"
	case DebugSourceDontCare:
		return "dont-care"
	default:
		return fmt.Sprintf("DebugSource(0x%04X)", uint32(s))
	}
}

// DebugType classifies a debug message.
type DebugType Enum

// Debug message types.
const (
	DebugTypeError              DebugType = 0x824C
	DebugTypeDeprecatedBehavior DebugType = 0x824D
	DebugTypeUndefinedBehavior  DebugType = 0x824E
	DebugTypePortability        DebugType = 0x824F
	DebugTypePerformance        DebugType = 0x8250
	DebugTypeOther              DebugType = 0x8251
	DebugTypeMarker             DebugType = 0x8268
	DebugTypePushGroup          DebugType = 0x8269
	DebugTypePopGroup           DebugType = 0x826A
	DebugTypeDontCare           DebugType = DebugType(DontCare)
)

func (t DebugType) String() string {
	switch t {
	case DebugTypeError:
		return "error"
	case DebugTypeDeprecatedBehavior:
		return "deprecated"
	case DebugTypeUndefinedBehavior:
		return "undefined"
	case DebugTypePortability:
		return "portability"
	case DebugTypePerformance:
		return "performance"
	case DebugTypeOther:
		return "other"
	case DebugTypeMarker:
		return "marker"
	case DebugTypePushGroup:
		return "push-group"
	case DebugTypePopGroup:
		return "pop-group"
	case DebugTypeDontCare:
		return "dont-care"
	default:
		return fmt.Sprintf("DebugType(0x%04X)", uint32(t))
	}
}

// DebugSeverity ranks a debug message.
type DebugSeverity Enum

// Debug message severities.
const (
	DebugSeverityHigh         DebugSeverity = 0x9146
	DebugSeverityMedium       DebugSeverity = 0x9147
	DebugSeverityLow          DebugSeverity = 0x9148
	DebugSeverityNotification DebugSeverity = 0x826B
	DebugSeverityDontCare     DebugSeverity = DebugSeverity(DontCare)
)

func (s DebugSeverity) String() string {
	switch s {
	case DebugSeverityHigh:
		return "high"
	case DebugSeverityMedium:
		return "medium"
	case DebugSeverityLow:
		return "low"
	case DebugSeverityNotification:
		return "notification"
	case DebugSeverityDontCare:
		return "dont-care"
	default:
		return fmt.Sprintf("DebugSeverity(0x%04X)", uint32(s))
	}
}

// DebugMessage is one decoded entry of the debug message log.
type DebugMessage struct {
	Source   DebugSource
	Type     DebugType
	ID       uint32
	Severity DebugSeverity
	Text     string
}

func (m DebugMessage) String() string {
	return fmt.Sprintf("[%s/%s/%s #%d] %s", m.Source, m.Type, m.Severity, m.ID, m.Text)
}

// SetDebugMessageControl enables or disables debug messages matching the
// filter. DontCare values match everything on their axis. A non-empty ids
// list selects individual messages and requires a specific source and type.
func (c *Context) SetDebugMessageControl(source DebugSource, typ DebugType, severity DebugSeverity, ids []uint32, enabled bool) error {
	const op = "DebugMessageControl"
	if err := c.require(op, FeatureDebugOutput); err != nil {
		return err
	}
	if len(ids) > 0 {
		if source == DebugSourceDontCare || typ == DebugTypeDontCare {
			return precondition(op, ErrInvalidFilter, "%d ids with source %s, type %s", len(ids), source, typ)
		}
		if severity != DebugSeverityDontCare {
			return precondition(op, ErrInvalidFilter, "%d ids with severity %s", len(ids), severity)
		}
	}
	c.native.DebugMessageControl(Enum(source), Enum(typ), Enum(severity), ids, enabled)
	return c.check(op)
}

// InsertDebugMessage injects a message into the debug stream. Only
// application and third-party sources may insert. text must be shorter
// than MAX_DEBUG_MESSAGE_LENGTH.
func (c *Context) InsertDebugMessage(source DebugSource, typ DebugType, id uint32, severity DebugSeverity, text string) error {
	const op = "DebugMessageInsert"
	if err := c.require(op, FeatureDebugOutput); err != nil {
		return err
	}
	if source != DebugSourceApplication && source != DebugSourceThirdParty {
		return precondition(op, ErrInvalidEnum, "source %s", source)
	}
	if typ == DebugTypeDontCare || severity == DebugSeverityDontCare {
		return precondition(op, ErrInvalidEnum, "wildcard type or severity")
	}
	if limit := c.intCap("MAX_DEBUG_MESSAGE_LENGTH"); int64(len(text)) >= limit {
		return precondition(op, ErrIndexOutOfRange, "message of %d bytes, MAX_DEBUG_MESSAGE_LENGTH %d", len(text), limit)
	}
	c.native.DebugMessageInsert(Enum(source), Enum(typ), id, Enum(severity), text)
	return c.check(op)
}

// DebugMessageLog fetches up to count messages from the debug log into a
// text buffer of bufferLength bytes. Fewer messages are returned when the
// log holds fewer or the next message does not fit; fetched messages are
// removed from the log.
func (c *Context) DebugMessageLog(count, bufferLength int) ([]DebugMessage, error) {
	const op = "GetDebugMessageLog"
	if err := c.require(op, FeatureDebugOutput); err != nil {
		return nil, err
	}
	if count < 0 || bufferLength < 0 {
		return nil, precondition(op, ErrInvalidArgument, "count %d, buffer %d", count, bufferLength)
	}
	if count == 0 {
		return nil, nil
	}

	sources := make([]Enum, count)
	types := make([]Enum, count)
	ids := make([]uint32, count)
	severities := make([]Enum, count)
	lengths := make([]int32, count)
	buf := make([]byte, bufferLength)

	n := c.native.GetDebugMessageLog(uint32(count), sources, types, ids, severities, lengths, buf)
	if err := c.check(op); err != nil {
		return nil, err
	}
	return DecodeDebugMessageLog(int(n), sources, types, ids, severities, lengths, buf)
}

// DecodeDebugMessageLog decodes the first n entries of a packed debug log
// response. Each lengths entry covers the message text plus its trailing
// NUL; messages are stored back to back in buf.
//
// A length below 1 or a length that runs past buf returns
// ErrMalformedDebugLog. NUL bytes inside a message are removed and
// invalid UTF-8 is replaced with U+FFFD.
func DecodeDebugMessageLog(n int, sources, types []Enum, ids []uint32, severities []Enum, lengths []int32, buf []byte) ([]DebugMessage, error) {
	if n < 0 || n > len(sources) || n > len(types) || n > len(ids) || n > len(severities) || n > len(lengths) {
		return nil, fmt.Errorf("%w: %d messages with arrays of %d", ErrMalformedDebugLog, n, min(len(sources), len(types), len(ids), len(severities), len(lengths)))
	}
	msgs := make([]DebugMessage, 0, n)
	sanitize := transform.Chain(runes.ReplaceIllFormed(), runes.Remove(runes.Predicate(func(r rune) bool { return r == 0 })))

	offset := 0
	for i := 0; i < n; i++ {
		l := int(lengths[i])
		if l < 1 {
			return nil, fmt.Errorf("%w: message %d has length %d", ErrMalformedDebugLog, i, l)
		}
		if offset+l > len(buf) {
			return nil, fmt.Errorf("%w: message %d spans [%d, %d) of a %d byte buffer", ErrMalformedDebugLog, i, offset, offset+l, len(buf))
		}
		text, _, err := transform.Bytes(sanitize, buf[offset:offset+l-1])
		if err != nil {
			return nil, fmt.Errorf("%w: message %d: %v", ErrMalformedDebugLog, i, err)
		}
		msgs = append(msgs, DebugMessage{
			Source:   DebugSource(sources[i]),
			Type:     DebugType(types[i]),
			ID:       ids[i],
			Severity: DebugSeverity(severities[i]),
			Text:     string(text),
		})
		offset += l
	}
	return msgs, nil
}
