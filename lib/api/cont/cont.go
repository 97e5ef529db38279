package cont

import (
	"context"

	"rsvpd/entity"
)

type ctxKey string

const (
	SessionKey ctxKey = "session"
	RemoteKey  ctxKey = "remote"
)

func PutSession(c context.Context, session *entity.Session) context.Context {
	return context.WithValue(c, SessionKey, session)
}

// GetSession returns nil when the request carries no live session.
func GetSession(c context.Context) *entity.Session {
	session, ok := c.Value(SessionKey).(*entity.Session)
	if !ok {
		return nil
	}
	return session
}

func PutRemote(c context.Context, remote string) context.Context {
	return context.WithValue(c, RemoteKey, remote)
}

func GetRemote(c context.Context) string {
	remote, _ := c.Value(RemoteKey).(string)
	return remote
}
