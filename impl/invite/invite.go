// Package invite issues and resolves invite codes.
package invite

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"rsvpd/entity"
	"rsvpd/internal/database"
	"rsvpd/lib/apperr"
	"rsvpd/lib/clock"
	"rsvpd/lib/sl"
)

const (
	// Alphabet leaves out 0, O, 1, I and L.
	Alphabet    = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	CodeLength  = 6
	MaxAttempts = 20
)

type Store interface {
	InviteCodeByCode(ctx context.Context, code string) (*entity.InviteCode, error)
}

// CodeWriter is the part of a store transaction that issuing needs.
type CodeWriter interface {
	CodeExists(ctx context.Context, code string) (bool, error)
	InsertCode(ctx context.Context, code *entity.InviteCode) error
}

// Grant is what a resolved code entitles its holder to.
type Grant struct {
	Type    entity.CodeType
	GuestID string
}

type Registry struct {
	store    Store
	clock    clock.Clock
	log      *slog.Logger
	generate func() (string, error)
}

func New(store Store, clk clock.Clock, log *slog.Logger) *Registry {
	return &Registry{
		store:    store,
		clock:    clk,
		log:      log.With(sl.Module("impl.invite")),
		generate: Generate,
	}
}

// Generate draws one candidate code; it does not check uniqueness.
func Generate() (string, error) {
	size := big.NewInt(int64(len(Alphabet)))
	var sb strings.Builder
	sb.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("random: %w", err)
		}
		sb.WriteByte(Alphabet[n.Int64()])
	}
	return sb.String(), nil
}

// Valid reports whether code has the shape of a generated code.
func Valid(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}

// Issue generates an unused code and inserts it through tx. A unique-key
// violation on insert counts as a collision; after MaxAttempts it gives up.
func (r *Registry) Issue(ctx context.Context, tx CodeWriter, codeType entity.CodeType, guestID string) (string, error) {
	if codeType == entity.CodeGuest && guestID == "" {
		return "", apperr.Internal("guest code without guest", nil)
	}
	if codeType == entity.CodeAdmin {
		guestID = ""
	}
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := r.generate()
		if err != nil {
			return "", apperr.Internal("generate code", err)
		}
		exists, err := tx.CodeExists(ctx, code)
		if err != nil {
			return "", apperr.Database("check code", err)
		}
		if exists {
			r.log.Debug("code collision", slog.Int("attempt", attempt))
			continue
		}
		err = tx.InsertCode(ctx, &entity.InviteCode{
			ID:        uuid.NewString(),
			Code:      code,
			CodeType:  string(codeType),
			GuestID:   guestID,
			CreatedAt: r.clock.Now(),
		})
		if errors.Is(err, database.ErrDuplicate) {
			r.log.Debug("code collision on insert", slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return "", apperr.Database("insert code", err)
		}
		return code, nil
	}
	r.log.Error("code generation exhausted", slog.Int("attempts", MaxAttempts))
	return "", apperr.Internal("could not generate a unique code", nil)
}

// Resolve looks the code up. Unknown codes are NotFound; a stored type
// outside the known set is an integrity fault.
func (r *Registry) Resolve(ctx context.Context, code string) (*Grant, error) {
	c, err := r.store.InviteCodeByCode(ctx, code)
	if err != nil {
		return nil, apperr.Database("lookup code", err)
	}
	if c == nil {
		return nil, apperr.NotFound("Invite code not found")
	}
	codeType, err := c.Type()
	if err != nil {
		r.log.Error("invalid stored code type",
			slog.String("code_id", c.ID),
			slog.String("code_type", c.CodeType),
			sl.Err(err),
		)
		return nil, apperr.Internal("invalid code type", err)
	}
	switch {
	case codeType == entity.CodeGuest && c.GuestID == "":
		r.log.Error("guest code without guest", slog.String("code_id", c.ID))
		return nil, apperr.Internal("guest code without guest", nil)
	case codeType == entity.CodeAdmin && c.GuestID != "":
		r.log.Error("admin code bound to guest", slog.String("code_id", c.ID))
		return nil, apperr.Internal("admin code bound to guest", nil)
	}
	return &Grant{Type: codeType, GuestID: c.GuestID}, nil
}
