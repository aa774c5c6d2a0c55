package dynamo

import (
	"fmt"
	"log/slog"
	"time"
)

// safeString reduces a value that may be a plain string, a status enum
// (anything implementing fmt.Stringer), a time.Time, or nil to its primitive
// string form. Depending on the call path, partial-update payloads sometimes
// carry typed enum values and sometimes their raw string form; callers must
// not need to care which. safeString never panics: every failure path
// degrades to a best-effort string or the supplied default.
func safeString(v any, def string) string {
	switch t := v.(type) {
	case nil:
		return def
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return def
		}
		return t.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return stringerValue(t, v, def)
	default:
		return sprintOr(v, def)
	}
}

// stringerValue calls String() with a panic guard. A typed-nil receiver
// behind the interface would otherwise take down the whole update.
func stringerValue(s fmt.Stringer, orig any, def string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("String() panicked during value coercion", "type", fmt.Sprintf("%T", orig), "panic", r)
			out = sprintOr(orig, def)
		}
	}()
	return s.String()
}

func sprintOr(v any, def string) string {
	if s := fmt.Sprint(v); s != "" && s != "<nil>" {
		return s
	}
	return def
}

// isEnumLike reports whether v should be reduced through safeString before
// being marshalled into an expression value. Strings pass as-is; typed
// enums and timestamps are flattened to their string form.
func isEnumLike(v any) bool {
	switch v.(type) {
	case time.Time, *time.Time, fmt.Stringer:
		return true
	}
	return false
}
