package models

import (
	"time"

	"github.com/bloomfeed/profile-api/pkg/types"
)

// Feature is a globally defined feature flag.
type Feature struct {
	ID        string            `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Key       string            `gorm:"column:key;type:varchar(128);not null;uniqueIndex" json:"key"`
	Type      types.FeatureType `gorm:"column:type;type:varchar(64);not null" json:"type"`
	Enabled   bool              `gorm:"column:enabled;not null;default:false" json:"enabled"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (Feature) TableName() string { return "feature" }

// ProfileFeature enables a feature for one profile.
type ProfileFeature struct {
	ProfileID string    `gorm:"column:profile_id;type:varchar(64);primary_key" json:"profile_id"`
	FeatureID string    `gorm:"column:feature_id;type:uuid;primary_key" json:"feature_id"`
	Enabled   bool      `gorm:"column:enabled;not null;default:false" json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProfileFeature) TableName() string { return "profile_feature" }
