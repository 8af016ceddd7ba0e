package repository

import (
	"strconv"

	"payfesa/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Runtime settings the platform reads without a redeploy. Seeded on boot,
// edited through the admin settings endpoints.
const (
	SettingMaintenanceMode    = "maintenance_mode"     // "true" pauses mobile money initiation
	SettingMinContributionMWK = "min_contribution_mwk" // floor for a group's per-round amount
	SettingMaxGroupMembers    = "max_group_members"    // rotation length cap; 0 = unlimited
	SettingSupportLine        = "support_whatsapp_line"
)

var settingDefaults = map[string]string{
	SettingMaintenanceMode:    "false",
	SettingMinContributionMWK: "1000",
	SettingMaxGroupMembers:    "30",
	SettingSupportLine:        "+265999000000",
}

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(key string) (string, error) {
	var s models.SystemSetting
	if err := r.db.Where("`key` = ?", key).First(&s).Error; err != nil {
		return "", err
	}
	return s.Value, nil
}

func (r *SettingRepository) Set(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.SystemSetting{Key: key, Value: value}).Error
}

func (r *SettingRepository) GetAll() ([]models.SystemSetting, error) {
	var list []models.SystemSetting
	err := r.db.Order("`key` ASC").Find(&list).Error
	return list, err
}

// SeedDefaults inserts the known settings that don't exist yet. Values an
// admin has already changed are left alone.
func (r *SettingRepository) SeedDefaults() error {
	for k, v := range settingDefaults {
		var count int64
		r.db.Model(&models.SystemSetting{}).Where("`key` = ?", k).Count(&count)
		if count == 0 {
			if err := r.db.Create(&models.SystemSetting{Key: k, Value: v}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// MaintenanceMode reports whether mobile money initiation is paused.
// Missing or unparseable values mean not paused.
func (r *SettingRepository) MaintenanceMode() bool {
	v, err := r.Get(SettingMaintenanceMode)
	if err != nil {
		return false
	}
	paused, err := strconv.ParseBool(v)
	return err == nil && paused
}

// MinContributionMWK is the smallest per-round amount a group may set.
func (r *SettingRepository) MinContributionMWK() float64 {
	v, err := r.Get(SettingMinContributionMWK)
	if err != nil {
		return 0
	}
	min, err := strconv.ParseFloat(v, 64)
	if err != nil || min < 0 {
		return 0
	}
	return min
}

// MaxGroupMembers caps the rotation length. 0 means unlimited.
func (r *SettingRepository) MaxGroupMembers() int {
	v, err := r.Get(SettingMaxGroupMembers)
	if err != nil {
		return 0
	}
	max, err := strconv.Atoi(v)
	if err != nil || max < 0 {
		return 0
	}
	return max
}
