package models

import "time"

// MembershipNft tracks whether a profile has dismissed or minted the
// membership NFT prompt.
type MembershipNft struct {
	ProfileID         string    `gorm:"column:profile_id;type:varchar(64);primary_key" json:"profile_id"`
	DismissedOrMinted bool      `gorm:"column:dismissed_or_minted;not null;default:false" json:"dismissed_or_minted"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (MembershipNft) TableName() string { return "membership_nft" }
