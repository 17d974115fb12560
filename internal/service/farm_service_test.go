package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/mazraa-market/internal/constants"
	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/repository"
)

func newFarmTestService(t *testing.T, name string) (*FarmService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Farm{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewFarmService(repository.NewFarmRepository(db), repository.NewUserRepository(db), nil)
	return svc, db
}

func seedConsumer(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Username: "test", PasswordHash: "x", IsConsumer: true, Status: "active"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func TestFarmCreatePromotesOwnerToFarmer(t *testing.T) {
	svc, db := newFarmTestService(t, "farm_promote")
	owner := seedConsumer(t, db, "grower@example.com")

	farm, err := svc.Create(owner.ID, FarmInput{
		Name:        "  مزرعة الواحة  ",
		Type:        constants.FarmTypeDates,
		Governorate: "الأحساء",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if farm.Name != "مزرعة الواحة" {
		t.Fatalf("name not trimmed: %q", farm.Name)
	}
	if farm.OwnerID != owner.ID {
		t.Fatalf("owner id = %d, want %d", farm.OwnerID, owner.ID)
	}

	var reloaded models.User
	if err := db.First(&reloaded, owner.ID).Error; err != nil {
		t.Fatalf("reload owner failed: %v", err)
	}
	if !reloaded.IsFarmer {
		t.Fatalf("owner was not promoted to farmer")
	}

	// A second farm must not touch the already-promoted account.
	if _, err := svc.Create(owner.ID, FarmInput{Name: "مزرعة ثانية"}); err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	farms, err := svc.ListByOwner(owner.ID)
	if err != nil {
		t.Fatalf("list by owner failed: %v", err)
	}
	if len(farms) != 2 {
		t.Fatalf("expected 2 farms, got %d", len(farms))
	}
}

func TestFarmCreateValidation(t *testing.T) {
	svc, db := newFarmTestService(t, "farm_validation")
	owner := seedConsumer(t, db, "grower@example.com")

	if _, err := svc.Create(owner.ID, FarmInput{Name: "مزرعة", Type: "معادن"}); !errors.Is(err, ErrFarmTypeInvalid) {
		t.Fatalf("unknown type: got %v, want ErrFarmTypeInvalid", err)
	}
	if _, err := svc.Create(owner.ID, FarmInput{Name: "   "}); !errors.Is(err, ErrFarmNotFound) {
		t.Fatalf("blank name: got %v", err)
	}
	// An empty type is allowed; the directory shows it as unclassified.
	if _, err := svc.Create(owner.ID, FarmInput{Name: "مزرعة بلا تصنيف"}); err != nil {
		t.Fatalf("empty type should pass: %v", err)
	}
	if _, err := svc.Create(owner.ID, FarmInput{Name: "مزرعة", DailyCapacity: -3}); err != nil {
		t.Fatalf("negative capacity should clamp, got %v", err)
	}
	farms, _ := svc.ListByOwner(owner.ID)
	for _, f := range farms {
		if f.DailyCapacity < 0 {
			t.Fatalf("capacity not clamped: %d", f.DailyCapacity)
		}
	}
}

func TestFarmUpdateRequiresOwnership(t *testing.T) {
	svc, db := newFarmTestService(t, "farm_ownership")
	owner := seedConsumer(t, db, "owner@example.com")
	intruder := seedConsumer(t, db, "intruder@example.com")

	farm, err := svc.Create(owner.ID, FarmInput{Name: "مزرعة النخيل", Type: constants.FarmTypeDates})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(intruder.ID, farm.ID, FarmInput{Name: "مسروقة"}); !errors.Is(err, ErrFarmNotOwned) {
		t.Fatalf("foreign update: got %v, want ErrFarmNotOwned", err)
	}
	if _, err := svc.Update(owner.ID, farm.ID+100, FarmInput{Name: "غائبة"}); !errors.Is(err, ErrFarmNotFound) {
		t.Fatalf("missing farm: got %v, want ErrFarmNotFound", err)
	}
	if _, err := svc.Update(owner.ID, farm.ID, FarmInput{Name: "مزرعة", Type: "غير معروف"}); !errors.Is(err, ErrFarmTypeInvalid) {
		t.Fatalf("bad type on update: got %v", err)
	}

	updated, err := svc.Update(owner.ID, farm.ID, FarmInput{
		Name:          "",
		Type:          constants.FarmTypeDairy,
		Location:      "طريق الملك فهد",
		DailyCapacity: 40,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "مزرعة النخيل" {
		t.Fatalf("blank name must keep the old one, got %q", updated.Name)
	}
	if updated.Type != constants.FarmTypeDairy || updated.DailyCapacity != 40 {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestFarmDelete(t *testing.T) {
	svc, db := newFarmTestService(t, "farm_delete")
	owner := seedConsumer(t, db, "owner@example.com")
	intruder := seedConsumer(t, db, "intruder@example.com")

	farm, err := svc.Create(owner.ID, FarmInput{Name: "مزرعة مؤقتة"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(intruder.ID, farm.ID); !errors.Is(err, ErrFarmNotOwned) {
		t.Fatalf("foreign delete: got %v", err)
	}
	if err := svc.Delete(owner.ID, farm.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(farm.ID); !errors.Is(err, ErrFarmNotFound) {
		t.Fatalf("deleted farm still visible: %v", err)
	}
}

func TestFarmListFilters(t *testing.T) {
	svc, db := newFarmTestService(t, "farm_list")
	owner := seedConsumer(t, db, "owner@example.com")

	if _, err := svc.Create(owner.ID, FarmInput{Name: "مزرعة التمور", Type: constants.FarmTypeDates, AdministrativeRegion: "الرياض"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(owner.ID, FarmInput{Name: "مزرعة الألبان", Type: constants.FarmTypeDairy, Governorate: "الخرج"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	byType, total, err := svc.List(repository.FarmListFilter{Type: constants.FarmTypeDairy})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(byType) != 1 || byType[0].Name != "مزرعة الألبان" {
		t.Fatalf("type filter failed: total=%d farms=%+v", total, byType)
	}

	byRegion, total, err := svc.List(repository.FarmListFilter{Region: "الخرج"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || byRegion[0].Governorate != "الخرج" {
		t.Fatalf("region filter failed: total=%d", total)
	}

	bySearch, total, err := svc.List(repository.FarmListFilter{Search: "التمور"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || bySearch[0].Type != constants.FarmTypeDates {
		t.Fatalf("search filter failed: total=%d", total)
	}
}
