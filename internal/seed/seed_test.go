package seed

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"it-inventory/internal/core/database"
	"it-inventory/internal/domain"
	"it-inventory/internal/repo"
	"it-inventory/pkg/utils"
)

func TestRunIsIdempotent(t *testing.T) {
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + t.Name() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	users := repo.NewUserRepo(db)
	admin := Admin{Name: "Administrador", Email: "admin@mbconsultoria.com", Password: "admin123"}
	for i := 0; i < 2; i++ {
		if err := Run(ctx, users, repo.NewCatalogRepo(db), admin, zap.NewNop()); err != nil {
			t.Fatalf("run #%d: %v", i, err)
		}
	}

	u, err := users.FindByEmail(ctx, admin.Email)
	if err != nil || u == nil {
		t.Fatalf("admin missing: %v", err)
	}
	if u.Role != domain.RoleAdmin || !utils.CheckPassword("admin123", u.PasswordHash) {
		t.Fatalf("unexpected admin: role=%s", u.Role)
	}

	counts := map[any]int64{&domain.User{}: 1, &domain.Department{}: 3, &domain.Vendor{}: 3, &domain.Software{}: 2}
	for model, want := range counts {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count %T: %v", model, err)
		}
		if n != want {
			t.Errorf("%T count = %d, want %d", model, n, want)
		}
	}
}

func TestRunRequiresAdminPassword(t *testing.T) {
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: "file:" + t.Name() + "?mode=memory&cache=shared", MaxOpenConns: 1, LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	err = Run(context.Background(), repo.NewUserRepo(db), repo.NewCatalogRepo(db), Admin{Email: "a@x.com"}, zap.NewNop())
	if !errors.Is(err, ErrNoAdminPassword) {
		t.Fatalf("expected ErrNoAdminPassword, got %v", err)
	}
}
