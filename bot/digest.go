package bot

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rsvpd/entity"
)

const maxTelegramMessageLen = 4096

// digest sections, in the order they are reported
var digestSections = []struct {
	activity entity.ActivityType
	title    string
}{
	{entity.ActivityCodeRejected, "Rejected invite codes"},
	{entity.ActivityLoginFailure, "Failed admin logins"},
}

// DigestBuffer holds failed sign-in attempts and reports them to every chat
// on an interval, aggregated by source.
type DigestBuffer struct {
	mu       sync.Mutex
	pending  []entity.Activity
	interval time.Duration
	chatIds  []int64
	send     func(chatId int64, text string)
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewDigestBuffer(chatIds []int64, send func(chatId int64, text string), interval time.Duration) *DigestBuffer {
	return &DigestBuffer{
		interval: interval,
		chatIds:  chatIds,
		send:     send,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (d *DigestBuffer) Add(a *entity.Activity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, *a)
}

func (d *DigestBuffer) StartTicker() {
	go func() {
		defer close(d.done)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.Flush()
			case <-d.stopCh:
				d.Flush()
				return
			}
		}
	}()
}

func (d *DigestBuffer) Flush() {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	parts := splitMessage(formatDigest(pending), maxTelegramMessageLen)
	for _, chatId := range d.chatIds {
		for _, part := range parts {
			d.send(chatId, part)
		}
	}
}

// Stop flushes what is left; the ticker must have been started.
func (d *DigestBuffer) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
		<-d.done
	})
}

type attemptSource struct {
	key   string
	count int
	last  time.Time
}

// formatDigest lists each section's sources, most attempts first.
func formatDigest(pending []entity.Activity) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Sign\\-in digest*: %d failed attempts\n", len(pending)))

	for _, section := range digestSections {
		sources := make(map[string]*attemptSource)
		total := 0
		for i := range pending {
			a := &pending[i]
			if a.Type != section.activity {
				continue
			}
			total++
			key := sourceKey(a)
			src, ok := sources[key]
			if !ok {
				src = &attemptSource{key: key}
				sources[key] = src
			}
			src.count++
			if a.OccurredAt.After(src.last) {
				src.last = a.OccurredAt
			}
		}
		if total == 0 {
			continue
		}

		list := make([]*attemptSource, 0, len(sources))
		for _, src := range sources {
			list = append(list, src)
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].count != list[j].count {
				return list[i].count > list[j].count
			}
			return list[i].key < list[j].key
		})

		sb.WriteString(fmt.Sprintf("\n*%s* \\(%d\\)\n", section.title, total))
		for _, src := range list {
			sb.WriteString(fmt.Sprintf("  %s: %d, last `%s`\n",
				Sanitize(src.key), src.count, src.last.UTC().Format("15:04")))
		}
	}
	return sb.String()
}

func sourceKey(a *entity.Activity) string {
	key := a.Remote
	if key == "" {
		key = "unknown"
	}
	if username := a.Details["username"]; username != "" {
		key += " as " + username
	}
	return key
}
