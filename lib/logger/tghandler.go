package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Sender delivers formatted log lines to chat.
type Sender interface {
	SendMessageWithLevel(msg string, level slog.Level)
}

// TelegramHandler forwards records at or above minLevel to a Sender after
// passing them to the wrapped handler.
type TelegramHandler struct {
	handler  slog.Handler
	sender   Sender
	minLevel slog.Level
	mu       *sync.Mutex
	attrs    []slog.Attr
	group    string
}

func NewTelegramHandler(handler slog.Handler, sender Sender, minLevel slog.Level) *TelegramHandler {
	return &TelegramHandler{
		handler:  handler,
		sender:   sender,
		minLevel: minLevel,
		mu:       &sync.Mutex{},
	}
}

// WithTelegram returns log unchanged when sender is nil.
func WithTelegram(log *slog.Logger, sender Sender, minLevel slog.Level) *slog.Logger {
	if sender == nil {
		return log
	}
	return slog.New(NewTelegramHandler(log.Handler(), sender, minLevel))
}

func (h *TelegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *TelegramHandler) Handle(ctx context.Context, record slog.Record) error {
	if err := h.handler.Handle(ctx, record); err != nil {
		return err
	}
	if record.Level < h.minLevel || h.sender == nil {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.sender.SendMessageWithLevel(h.format(record), record.Level)
	return nil
}

func (h *TelegramHandler) format(record slog.Record) string {
	var b strings.Builder
	if h.group != "" {
		b.WriteString(fmt.Sprintf("*%s* `%s.%s`", record.Level.String(), h.group, record.Message))
	} else {
		b.WriteString(fmt.Sprintf("*%s* `%s`", record.Level.String(), record.Message))
	}

	writeAttr := func(attr slog.Attr) {
		if attr.Key == "error" {
			b.WriteString(fmt.Sprintf("\n%s: ```error %v ```", attr.Key, attr.Value))
			return
		}
		b.WriteString(Escape(fmt.Sprintf("\n%s: %v", attr.Key, attr.Value)))
	}
	for _, attr := range h.attrs {
		writeAttr(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(attr)
		return true
	})
	return b.String()
}

func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &TelegramHandler{
		handler:  h.handler.WithAttrs(attrs),
		sender:   h.sender,
		minLevel: h.minLevel,
		mu:       h.mu,
		attrs:    newAttrs,
		group:    h.group,
	}
}

func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}

	return &TelegramHandler{
		handler:  h.handler.WithGroup(name),
		sender:   h.sender,
		minLevel: h.minLevel,
		mu:       h.mu,
		attrs:    h.attrs,
		group:    group,
	}
}

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

// Escape quotes MarkdownV2 control characters.
func Escape(text string) string {
	return markdownReplacer.Replace(text)
}
