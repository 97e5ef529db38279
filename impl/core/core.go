package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rsvpd/entity"
	"rsvpd/lib/sl"
)

type AuthService interface {
	Redeem(ctx context.Context, current *entity.Session, code string) (*entity.Session, *entity.RedeemResult, error)
	Login(ctx context.Context, current *entity.Session, username, password string) (*entity.Session, *entity.AdminLoginResult, error)
	Logout(ctx context.Context, session *entity.Session) error
	Resolve(ctx context.Context, token string) (*entity.Session, error)
	Info(ctx context.Context, session *entity.Session) (*entity.SessionInfo, error)
	Lifetime() time.Duration
}

type RsvpService interface {
	Submit(ctx context.Context, guestID string, req *entity.SubmitRsvp) (*entity.RsvpStatus, error)
	Status(ctx context.Context, guestID string) (*entity.RsvpStatus, error)
}

type AdminService interface {
	Guests(ctx context.Context) (*entity.GuestList, error)
	CreateGuest(ctx context.Context, req *entity.GuestRequest) (*entity.CreatedGuest, error)
	UpdateGuest(ctx context.Context, id string, req *entity.GuestRequest) (*entity.Guest, error)
	DeleteGuest(ctx context.Context, id string) error
	RegenerateCode(ctx context.Context, id string) (*entity.GeneratedCode, error)
	IssueAdminCode(ctx context.Context) (*entity.GeneratedCode, error)
	Dashboard(ctx context.Context) (*entity.DashboardStats, error)
	Events(ctx context.Context) (*entity.EventList, error)
	CreateEvent(ctx context.Context, req *entity.EventRequest) (*entity.Event, error)
	UpdateEvent(ctx context.Context, id string, req *entity.EventRequest) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, adminID string, req *entity.ChangePassword) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Core routes HTTP handler calls to the services behind them.
type Core struct {
	auth  AuthService
	rsvp  RsvpService
	admin AdminService
	db    Pinger
	log   *slog.Logger
}

func New(auth AuthService, rsvp RsvpService, admin AdminService, db Pinger, log *slog.Logger) Core {
	if auth == nil || rsvp == nil || admin == nil {
		panic("core service is nil")
	}
	return Core{
		auth:  auth,
		rsvp:  rsvp,
		admin: admin,
		db:    db,
		log:   log.With(sl.Module("core")),
	}
}

func (c Core) ResolveSession(ctx context.Context, token string) (*entity.Session, error) {
	return c.auth.Resolve(ctx, token)
}

func (c Core) SessionLifetime() time.Duration {
	return c.auth.Lifetime()
}

func (c Core) RedeemCode(ctx context.Context, current *entity.Session, req *entity.RedeemCode) (*entity.Session, *entity.RedeemResult, error) {
	return c.auth.Redeem(ctx, current, req.Code)
}

func (c Core) AdminLogin(ctx context.Context, current *entity.Session, req *entity.AdminLogin) (*entity.Session, *entity.AdminLoginResult, error) {
	return c.auth.Login(ctx, current, req.Username, req.Password)
}

func (c Core) Logout(ctx context.Context, session *entity.Session) error {
	return c.auth.Logout(ctx, session)
}

func (c Core) SessionInfo(ctx context.Context, session *entity.Session) (*entity.SessionInfo, error) {
	return c.auth.Info(ctx, session)
}

func (c Core) RsvpStatus(ctx context.Context, session *entity.Session) (*entity.RsvpStatus, error) {
	return c.rsvp.Status(ctx, session.GuestID)
}

func (c Core) SubmitRsvp(ctx context.Context, session *entity.Session, req *entity.SubmitRsvp) (*entity.RsvpStatus, error) {
	return c.rsvp.Submit(ctx, session.GuestID, req)
}

func (c Core) Guests(ctx context.Context) (*entity.GuestList, error) {
	return c.admin.Guests(ctx)
}

func (c Core) CreateGuest(ctx context.Context, req *entity.GuestRequest) (*entity.CreatedGuest, error) {
	return c.admin.CreateGuest(ctx, req)
}

func (c Core) UpdateGuest(ctx context.Context, id string, req *entity.GuestRequest) (*entity.Guest, error) {
	return c.admin.UpdateGuest(ctx, id, req)
}

func (c Core) DeleteGuest(ctx context.Context, id string) error {
	return c.admin.DeleteGuest(ctx, id)
}

func (c Core) RegenerateCode(ctx context.Context, id string) (*entity.GeneratedCode, error) {
	return c.admin.RegenerateCode(ctx, id)
}

func (c Core) IssueAdminCode(ctx context.Context) (*entity.GeneratedCode, error) {
	return c.admin.IssueAdminCode(ctx)
}

func (c Core) Dashboard(ctx context.Context) (*entity.DashboardStats, error) {
	return c.admin.Dashboard(ctx)
}

func (c Core) Events(ctx context.Context) (*entity.EventList, error) {
	return c.admin.Events(ctx)
}

func (c Core) CreateEvent(ctx context.Context, req *entity.EventRequest) (*entity.Event, error) {
	return c.admin.CreateEvent(ctx, req)
}

func (c Core) UpdateEvent(ctx context.Context, id string, req *entity.EventRequest) (*entity.Event, error) {
	return c.admin.UpdateEvent(ctx, id, req)
}

func (c Core) DeleteEvent(ctx context.Context, id string) error {
	return c.admin.DeleteEvent(ctx, id)
}

func (c Core) ChangePassword(ctx context.Context, session *entity.Session, req *entity.ChangePassword) error {
	return c.admin.ChangePassword(ctx, session.AdminID, req)
}

func (c Core) Health(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not connected")
	}
	return c.db.Ping(ctx)
}
