package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"rsvpd/entity"
	"rsvpd/impl/invite"
	"rsvpd/internal/config"
	"rsvpd/internal/database"
	"rsvpd/lib/clock"
	"rsvpd/lib/password"
	"rsvpd/lib/sl"
	"rsvpd/lib/validate"
)

const (
	passwordLength   = 16
	passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	seedTimeout      = 30 * time.Second
)

const usage = `usage:
  seed [-conf config.yml] admin <username> [code]
  seed [-conf config.yml] guest <name> <party_size> [code]
`

var errUsage = errors.New("invalid arguments")

type seeder struct {
	store  *database.Store
	codes  *invite.Registry
	hasher *password.Hasher
	clock  clock.Clock
	out    io.Writer
}

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store, err := database.New(conf)
	if err != nil {
		log.Error("database", sl.Err(err))
		os.Exit(1)
	}
	defer store.Close()

	clk := clock.System()
	s := &seeder{
		store:  store,
		codes:  invite.New(store, clk, log),
		hasher: password.Default(),
		clock:  clk,
		out:    os.Stdout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	if err = s.run(ctx, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
		}
		log.Error("seed", sl.Err(err))
		os.Exit(2)
	}
}

func (s *seeder) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "admin":
		if len(args) < 2 || len(args) > 3 {
			return errUsage
		}
		return s.admin(ctx, args[1], optional(args, 2))
	case "guest":
		if len(args) < 3 || len(args) > 4 {
			return errUsage
		}
		size, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("party size %q: %w", args[2], errUsage)
		}
		return s.guest(ctx, args[1], size, optional(args, 3))
	}
	return errUsage
}

// admin upserts the account with a fresh password and adds an admin code.
func (s *seeder) admin(ctx context.Context, username, code string) error {
	if err := validate.Struct(&entity.AdminLogin{Username: username, Password: "-"}); err != nil {
		return err
	}
	secret, err := generatePassword()
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return err
	}

	var stored *entity.Admin
	err = s.store.Update(ctx, func(tx *database.Tx) error {
		stored, err = tx.UpsertAdmin(ctx, &entity.Admin{
			ID:           uuid.NewString(),
			Username:     username,
			PasswordHash: hash,
			CreatedAt:    s.clock.Now(),
		})
		if err != nil {
			return err
		}
		code, err = s.insertCode(ctx, tx, entity.CodeAdmin, "", code)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "admin:    %s\npassword: %s\ncode:     %s\n", stored.Username, secret, code)
	return nil
}

func (s *seeder) guest(ctx context.Context, name string, partySize int, code string) error {
	req := &entity.GuestRequest{Name: name, PartySize: partySize}
	if err := validate.Struct(req); err != nil {
		return err
	}
	guest := &entity.Guest{
		ID:        uuid.NewString(),
		Name:      req.Name,
		PartySize: req.PartySize,
		CreatedAt: s.clock.Now(),
	}

	err := s.store.Update(ctx, func(tx *database.Tx) error {
		if err := tx.InsertGuest(ctx, guest); err != nil {
			return err
		}
		var err error
		code, err = s.insertCode(ctx, tx, entity.CodeGuest, guest.ID, code)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "guest: %s (party of %d)\ncode:  %s\n", guest.Name, guest.PartySize, code)
	return nil
}

// insertCode stores the given code verbatim, or issues a generated one when
// code is empty.
func (s *seeder) insertCode(ctx context.Context, tx *database.Tx, codeType entity.CodeType, guestID, code string) (string, error) {
	if code == "" {
		return s.codes.Issue(ctx, tx, codeType, guestID)
	}
	if err := validate.Struct(&entity.RedeemCode{Code: code}); err != nil {
		return "", err
	}
	err := tx.InsertCode(ctx, &entity.InviteCode{
		ID:        uuid.NewString(),
		Code:      code,
		CodeType:  string(codeType),
		GuestID:   guestID,
		CreatedAt: s.clock.Now(),
	})
	if errors.Is(err, database.ErrDuplicate) {
		return "", fmt.Errorf("code %q is already in use", code)
	}
	return code, err
}

func generatePassword() (string, error) {
	size := big.NewInt(int64(len(passwordAlphabet)))
	buf := make([]byte, passwordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("random: %w", err)
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func optional(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}
