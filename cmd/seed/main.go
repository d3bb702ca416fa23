// Command seed fills the database with a sample catalogue of listings owned
// by an existing host or admin account.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/havenstay/service-rental/internal/config"
	listingDomain "github.com/havenstay/service-rental/internal/domain/listing"
	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/database"
	"github.com/havenstay/service-rental/internal/platform/logger"
	"github.com/havenstay/service-rental/internal/repository"
)

func main() {
	hostEmail := pflag.String("host-email", "", "promote this account to host before seeding")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "rental-seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(repository.Models()...); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
	} else if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s := &seeder{
		users:    repository.NewGormUserRepository(db),
		listings: repository.NewGormListingRepository(db),
		logger:   log,
	}
	n, err := s.run(ctx, *hostEmail, catalogue)
	if err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("seed completed", zap.Int("listings", n))
}

type seeder struct {
	users    *repository.GormUserRepository
	listings *repository.GormListingRepository
	logger   *zap.Logger
}

// run promotes hostEmail when given, picks the oldest host or admin and
// replaces that account's copies of the catalogue.
func (s *seeder) run(ctx context.Context, hostEmail string, entries []listingDomain.Details) (int, error) {
	if hostEmail != "" {
		u, err := s.users.FindByEmail(ctx, hostEmail)
		if err != nil {
			return 0, err
		}
		if u.Role() == auth.RoleGuest {
			if err := u.Promote(auth.RoleHost); err != nil {
				return 0, err
			}
			if err := s.users.UpdateRole(ctx, u); err != nil {
				return 0, err
			}
			s.logger.Info("promoted account to host", zap.String("email", u.Email()))
		}
	}

	host, err := s.users.FindFirstByRoles(ctx, auth.RoleHost, auth.RoleAdmin)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return 0, fmt.Errorf("no host or admin account exists; register one and rerun with -host-email")
		}
		return 0, err
	}
	s.logger.Info("seeding listings", zap.String("host", host.Email()))

	titles := make([]string, len(entries))
	for i, d := range entries {
		titles[i] = d.Title
	}
	removed, err := s.listings.DeleteByTitles(ctx, host.ID(), titles)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("removed previously seeded listings", zap.Int64("count", removed))
	}

	for _, d := range entries {
		l, err := listingDomain.NewListing(host.ID(), d)
		if err != nil {
			return 0, fmt.Errorf("catalogue entry %q: %w", d.Title, err)
		}
		if err := s.listings.Save(ctx, l); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}
