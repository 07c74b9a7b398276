package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hall-backend/models"
)

// HallService manages the bookable venue resources of each hall owner.
type HallService struct {
	DB *gorm.DB
}

func NewHallService(db *gorm.DB) *HallService {
	return &HallService{DB: db}
}

type HallInput struct {
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description"`
}

func (in HallInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationf("Hall name is required")
	}
	if in.Capacity < 0 {
		return validationf("Capacity cannot be negative")
	}
	return nil
}

func (s *HallService) Create(p Principal, in HallInput) (models.Hall, error) {
	ownerID, err := ResolveEffectiveOwner(p, "")
	if err != nil {
		return models.Hall{}, err
	}
	if err := in.validate(); err != nil {
		return models.Hall{}, err
	}
	hall := models.Hall{
		ID:          uuid.NewString(),
		HallOwnerID: ownerID,
		Name:        strings.TrimSpace(in.Name),
		Capacity:    in.Capacity,
		Description: in.Description,
	}
	if err := s.DB.Create(&hall).Error; err != nil {
		return models.Hall{}, err
	}
	return hall, nil
}

// ListPublic returns a hall owner's halls without authentication, for
// the public booking form.
func (s *HallService) ListPublic(hallOwnerID string) ([]models.Hall, error) {
	if hallOwnerID == "" {
		return nil, validationf("hallOwnerId is required")
	}
	var halls []models.Hall
	if err := s.DB.Where("hall_owner_id = ?", hallOwnerID).Order("name").Find(&halls).Error; err != nil {
		return nil, err
	}
	return halls, nil
}

func (s *HallService) ListForOwner(p Principal) ([]models.Hall, error) {
	ownerID, err := ResolveEffectiveOwner(p, "")
	if err != nil {
		return nil, err
	}
	return s.ListPublic(ownerID)
}

func (s *HallService) load(id string) (models.Hall, error) {
	var hall models.Hall
	if err := s.DB.First(&hall, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Hall{}, ErrHallNotFound
		}
		return models.Hall{}, err
	}
	return hall, nil
}

func (s *HallService) Get(p Principal, id string) (models.Hall, error) {
	hall, err := s.load(id)
	if err != nil {
		return models.Hall{}, err
	}
	if _, err := ResolveEffectiveOwner(p, hall.HallOwnerID); err != nil {
		return models.Hall{}, err
	}
	return hall, nil
}

func (s *HallService) Update(p Principal, id string, in HallInput) (models.Hall, error) {
	hall, err := s.Get(p, id)
	if err != nil {
		return models.Hall{}, err
	}
	if err := in.validate(); err != nil {
		return models.Hall{}, err
	}
	updates := map[string]interface{}{
		"name":        strings.TrimSpace(in.Name),
		"capacity":    in.Capacity,
		"description": in.Description,
	}
	if err := s.DB.Model(&hall).Updates(updates).Error; err != nil {
		return models.Hall{}, err
	}
	return s.load(id)
}

// Delete soft-deletes the hall. Existing bookings keep their hall name
// snapshot and stay intact.
func (s *HallService) Delete(p Principal, id string) error {
	hall, err := s.Get(p, id)
	if err != nil {
		return err
	}
	return s.DB.Delete(&hall).Error
}
