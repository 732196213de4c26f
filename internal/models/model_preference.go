package models

import "time"

// Preference stores per-profile preference flags. A missing row means every
// flag is off.
type Preference struct {
	ProfileID                    string    `gorm:"column:profile_id;type:varchar(64);primary_key" json:"profile_id"`
	HighSignalNotificationFilter bool      `gorm:"column:high_signal_notification_filter;not null;default:false" json:"high_signal_notification_filter"`
	IsPride                      bool      `gorm:"column:is_pride;not null;default:false" json:"is_pride"`
	CreatedAt                    time.Time `json:"created_at"`
	UpdatedAt                    time.Time `json:"updated_at"`
}

func (Preference) TableName() string {
	return "preference"
}
