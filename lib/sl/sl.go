package sl

import (
	"fmt"
	"log/slog"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret masks a bearer value before it reaches the log: session tokens keep
// their first 5 characters, short values like invite codes keep 2
func Secret(key, value string) slog.Attr {
	r := "***"
	switch {
	case value == "":
		r = "?"
	case len(value) > 16:
		r = fmt.Sprintf("%s***", value[0:5])
	case len(value) > 4:
		r = fmt.Sprintf("%s***", value[0:2])
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(r),
	}
}

func Module(mod string) slog.Attr {
	return slog.Attr{
		Key:   "mod",
		Value: slog.StringValue(mod),
	}
}

func Session(kind string) slog.Attr {
	return slog.String("session_type", kind)
}
