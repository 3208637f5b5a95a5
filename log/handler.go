package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/exp/slog"
)

const (
	timeFormat  = "01-02|15:04:05.000"
	termMsgJust = 40
	errorKey    = "LOG_ERROR"
)

type discardHandler struct{}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, r slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, level slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(name string) slog.Handler {
	panic("not implemented")
}

func (h *discardHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &discardHandler{}
}

// TerminalHandler formats records for a human reader:
//
//	INFO [10-19|14:02:11.018] Rendered metric events                   count=100 backlog=0
type TerminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	lvl      slog.Level
	useColor bool
	attrs    []slog.Attr
	buf      []byte
}

// NewTerminalHandlerWithLevel returns a handler which formats log records at or
// above lvl for a human reader, with color-coded levels when useColor is set.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl slog.Level, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf := h.format(h.buf[:0], r)
	_, err := h.wr.Write(buf)
	h.buf = buf
	return err
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl
}

func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	panic("not implemented")
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &TerminalHandler{
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    merged,
	}
}

func levelColor(l slog.Level) int {
	switch l {
	case LevelCrit:
		return 35
	case slog.LevelError:
		return 31
	case slog.LevelWarn:
		return 33
	case slog.LevelInfo:
		return 32
	case slog.LevelDebug:
		return 36
	case LevelTrace:
		return 34
	}
	return 0
}

func (h *TerminalHandler) format(buf []byte, r slog.Record) []byte {
	b := bytes.NewBuffer(buf)
	msg := escapeMessage(r.Message)
	lvl := LevelAlignedString(r.Level)
	if color := levelColor(r.Level); h.useColor && color > 0 {
		fmt.Fprintf(b, "\x1b[%dm%s\x1b[0m[%s] %s ", color, lvl, r.Time.Format(timeFormat), msg)
	} else {
		fmt.Fprintf(b, "%s[%s] %s ", lvl, r.Time.Format(timeFormat), msg)
	}
	if length := utf8.RuneCountInString(msg); (len(h.attrs) > 0 || r.NumAttrs() > 0) && length < termMsgJust {
		b.Write(bytes.Repeat([]byte{' '}, termMsgJust-length))
	}
	for _, attr := range h.attrs {
		h.appendAttr(b, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		h.appendAttr(b, attr)
		return true
	})
	out := bytes.TrimRight(b.Bytes(), " ")
	return append(out, '\n')
}

func (h *TerminalHandler) appendAttr(b *bytes.Buffer, attr slog.Attr) {
	key := escapeString(attr.Key)
	val := formatValue(attr.Value)
	if h.useColor {
		fmt.Fprintf(b, "\x1b[%dm%s\x1b[0m=%s ", levelColor(slog.LevelInfo), key, val)
	} else {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(val)
		b.WriteByte(' ')
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return escapeString(v.String())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', 3, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	}
	switch value := v.Any().(type) {
	case nil:
		return "<nil>"
	case error:
		return escapeString(value.Error())
	case fmt.Stringer:
		return escapeString(value.String())
	default:
		return escapeString(fmt.Sprintf("%+v", value))
	}
}

// escapeString quotes a value when it would otherwise break the key=value layout.
func escapeString(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " =\"\t\r\n") {
		return strconv.Quote(s)
	}
	return s
}

// escapeMessage only quotes messages containing control characters.
func escapeMessage(s string) string {
	if strings.ContainsAny(s, "\r\n\t") {
		return strconv.Quote(s)
	}
	return s
}
