package service

import (
	"context"
	"strings"

	"github.com/mazraa-market/internal/authz"
	"github.com/mazraa-market/internal/cache"
	"github.com/mazraa-market/internal/constants"
	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/repository"
)

// FarmInput is the payload for creating or updating a farm.
type FarmInput struct {
	Name                 string
	Description          string
	Location             string
	AdministrativeRegion string
	Governorate          string
	Type                 string
	PricePerKG           string
	PhoneNumber          string
	ImageURL             string
	DailyCapacity        int
}

// FarmService handles the farm directory and farmer-owned farm management.
type FarmService struct {
	farmRepo     repository.FarmRepository
	userRepo     repository.UserRepository
	authzService *authz.Service
}

// NewFarmService creates the farm service.
func NewFarmService(farmRepo repository.FarmRepository, userRepo repository.UserRepository, authzService *authz.Service) *FarmService {
	return &FarmService{farmRepo: farmRepo, userRepo: userRepo, authzService: authzService}
}

// List returns the public farm directory page.
func (s *FarmService) List(filter repository.FarmListFilter) ([]models.Farm, int64, error) {
	return s.farmRepo.List(filter)
}

// Get returns one farm with its products.
func (s *FarmService) Get(id uint) (*models.Farm, error) {
	farm, err := s.farmRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}
	return farm, nil
}

// ListByOwner returns the farms of one farmer.
func (s *FarmService) ListByOwner(ownerID uint) ([]models.Farm, error) {
	return s.farmRepo.ListByOwner(ownerID)
}

// Create registers a farm for the owner. Creating a first farm promotes the
// account to the farmer role.
func (s *FarmService) Create(ownerID uint, in FarmInput) (*models.Farm, error) {
	if err := validateFarmType(in.Type); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrFarmNotFound
	}

	farm := &models.Farm{
		OwnerID:              ownerID,
		Name:                 name,
		Description:          strings.TrimSpace(in.Description),
		Location:             strings.TrimSpace(in.Location),
		AdministrativeRegion: strings.TrimSpace(in.AdministrativeRegion),
		Governorate:          strings.TrimSpace(in.Governorate),
		Type:                 strings.TrimSpace(in.Type),
		PricePerKG:           strings.TrimSpace(in.PricePerKG),
		PhoneNumber:          strings.TrimSpace(in.PhoneNumber),
		ImageURL:             strings.TrimSpace(in.ImageURL),
		DailyCapacity:        in.DailyCapacity,
	}
	if farm.DailyCapacity < 0 {
		farm.DailyCapacity = 0
	}
	if err := s.farmRepo.Create(farm); err != nil {
		return nil, err
	}

	if s.userRepo != nil {
		if owner, err := s.userRepo.GetByID(ownerID); err == nil && owner != nil && !owner.IsFarmer {
			owner.IsFarmer = true
			_ = s.userRepo.Update(owner)
			syncUserRoles(s.authzService, owner)
			_ = cache.DelUserAuthState(context.Background(), owner.ID)
		}
	}
	return farm, nil
}

// Update applies changes to an owned farm.
func (s *FarmService) Update(ownerID, farmID uint, in FarmInput) (*models.Farm, error) {
	farm, err := s.ownedFarm(ownerID, farmID)
	if err != nil {
		return nil, err
	}
	if err := validateFarmType(in.Type); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		farm.Name = name
	}
	farm.Description = strings.TrimSpace(in.Description)
	farm.Location = strings.TrimSpace(in.Location)
	farm.AdministrativeRegion = strings.TrimSpace(in.AdministrativeRegion)
	farm.Governorate = strings.TrimSpace(in.Governorate)
	farm.Type = strings.TrimSpace(in.Type)
	farm.PricePerKG = strings.TrimSpace(in.PricePerKG)
	farm.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	farm.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.DailyCapacity >= 0 {
		farm.DailyCapacity = in.DailyCapacity
	}
	if err := s.farmRepo.Update(farm); err != nil {
		return nil, err
	}
	return farm, nil
}

// Delete removes an owned farm.
func (s *FarmService) Delete(ownerID, farmID uint) error {
	if _, err := s.ownedFarm(ownerID, farmID); err != nil {
		return err
	}
	return s.farmRepo.Delete(farmID)
}

func (s *FarmService) ownedFarm(ownerID, farmID uint) (*models.Farm, error) {
	farm, err := s.farmRepo.GetByID(farmID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}
	if farm.OwnerID != ownerID {
		return nil, ErrFarmNotOwned
	}
	return farm, nil
}

func validateFarmType(farmType string) error {
	trimmed := strings.TrimSpace(farmType)
	if trimmed == "" {
		return nil
	}
	for _, t := range constants.FarmTypes {
		if t == trimmed {
			return nil
		}
	}
	return ErrFarmTypeInvalid
}
