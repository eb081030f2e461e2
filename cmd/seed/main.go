package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tourcatalog/internal/config"
	"tourcatalog/internal/db"
	"tourcatalog/internal/logging"
	"tourcatalog/internal/model"
	"tourcatalog/internal/repository"
	"tourcatalog/internal/service"
)

func main() {
	file := flag.String("file", "", "path of a catalog bundle (JSON)")
	url := flag.String("url", "", "URL of a catalog bundle (JSON)")
	adminEmail := flag.String("admin-email", os.Getenv("ADMIN_EMAIL"), "email of the admin account to ensure")
	adminPassword := flag.String("admin-password", os.Getenv("ADMIN_PASSWORD"), "password of a newly created admin account")
	adminName := flag.String("admin-name", "Administrator", "display name of a newly created admin account")
	flag.Parse()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat).With(slog.String("component", "seed"))

	if *file == "" && *url == "" && *adminEmail == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -file or -url and/or -admin-email")
		flag.Usage()
		os.Exit(2)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		fatal(logger, "connect to database", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		fatal(logger, "run migrations", err)
	}
	logger.Info("database ready", slog.String("driver", cfg.DBDriver))

	store := repository.NewStore(gormDB)
	ctx := context.Background()

	if *file != "" || *url != "" {
		bundle, err := loadBundle(ctx, *file, *url)
		if err != nil {
			fatal(logger, "load bundle", err)
		}

		// No cache here: a running server picks up reference data once its
		// cached lists expire.
		importer := service.NewImportService(store, nil, logger)
		summary, err := importer.Import(ctx, bundle)
		if err != nil {
			fatal(logger, "import bundle", err)
		}
		logger.Info("seed completed",
			slog.Int("categories_created", summary.CategoriesCreated),
			slog.Int("categories_updated", summary.CategoriesUpdated),
			slog.Int("metro_stations_created", summary.MetroStationsCreated),
			slog.Int("metro_stations_updated", summary.MetroStationsUpdated),
			slog.Int("attractions_created", summary.AttractionsCreated),
			slog.Int("attractions_updated", summary.AttractionsUpdated),
		)
	}

	if *adminEmail != "" {
		created, err := ensureAdmin(ctx, store.Users, *adminEmail, *adminPassword, *adminName)
		if err != nil {
			fatal(logger, "ensure admin", err)
		}
		logger.Info("admin account ready", slog.String("email", *adminEmail), slog.Bool("created", created))
	}
}

// loadBundle reads the bundle from a file, or fetches it when only url is set.
func loadBundle(ctx context.Context, file, url string) (*service.CatalogBundle, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return service.DecodeCatalogBundle(f)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bundle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bundle URL returned status code: %d", resp.StatusCode)
	}
	return service.DecodeCatalogBundle(io.LimitReader(resp.Body, 10<<20))
}

// ensureAdmin creates an admin account unless one exists for email. An
// existing account without the admin role is left untouched and reported.
func ensureAdmin(ctx context.Context, users repository.UserRepository, email, password, name string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == model.RoleAdmin {
			return false, nil
		}
		return false, fmt.Errorf("%s exists without the admin role", email)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, fmt.Errorf("error checking user %s: %w", email, err)
	}

	if len(password) < 8 {
		return false, errors.New("admin password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("error creating admin %s: %w", email, err)
	}
	return true, nil
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
