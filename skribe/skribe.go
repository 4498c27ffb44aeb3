// Package skribe defines patchctl-wide logging types and functions.
//
// Logging happens via slog.
package skribe

import (
	"context"
	"log/slog"
	"slices"
)

type attrsKey struct{}

// Truncate keeps at most limit runes of s, appending a "…(truncated)"
// marker when it cuts, for logging raw pasted responses at debug level
// without dumping an entire multi-kilobyte clipboard payload into a log
// line.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…(truncated)"
}

func ContextWithAttr(ctx context.Context, add ...slog.Attr) context.Context {
	attrs := slices.Clone(Attrs(ctx))
	attrs = append(attrs, add...)
	return context.WithValue(ctx, attrsKey{}, attrs)
}

func Attrs(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}

func AttrsWrap(h slog.Handler) slog.Handler {
	return &augmentHandler{Handler: h}
}

type augmentHandler struct {
	slog.Handler
}

func (h *augmentHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := Attrs(ctx)
	r.AddAttrs(attrs...)
	return h.Handler.Handle(ctx, r)
}
