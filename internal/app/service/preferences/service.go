package preferences

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bloomfeed/profile-api/internal/models"
	"github.com/bloomfeed/profile-api/pkg/types"
)

// Service aggregates per-profile preference flags from four independent
// sources in one atomic read. It has no write path.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// GetPreferences joins the preference row, pro-subscription existence,
// enabled non-kill-switch features and the membership-NFT row into one
// response object. Absent rows coerce to false / empty.
func (s *Service) GetPreferences(ctx context.Context, profileID string) (*types.ProfilePreferences, error) {
	var (
		pref     *models.Preference
		nft      *models.MembershipNft
		features []string
		proCount int64
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Preference
		switch err := tx.Where("profile_id = ?", profileID).First(&p).Error; {
		case err == nil:
			pref = &p
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("load preference: %w", err)
		}

		if err := tx.Model(&models.ProSubscription{}).
			Where("profile_id = ?", profileID).Count(&proCount).Error; err != nil {
			return fmt.Errorf("load pro subscription: %w", err)
		}

		if err := tx.Model(&models.ProfileFeature{}).
			Joins("JOIN feature ON feature.id = profile_feature.feature_id").
			Where("profile_feature.profile_id = ? AND profile_feature.enabled = ?", profileID, true).
			Where("feature.enabled = ? AND feature.type <> ?", true, types.FeatureTypeKillSwitch).
			Pluck("feature.key", &features).Error; err != nil {
			return fmt.Errorf("load profile features: %w", err)
		}

		var m models.MembershipNft
		switch err := tx.Where("profile_id = ?", profileID).First(&m).Error; {
		case err == nil:
			nft = &m
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("load membership nft: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return buildPreferences(pref, proCount > 0, features, nft), nil
}

// buildPreferences coerces absent rows to their false/empty defaults.
func buildPreferences(pref *models.Preference, isPro bool, features []string, nft *models.MembershipNft) *types.ProfilePreferences {
	out := &types.ProfilePreferences{
		Features: features,
		IsPro:    isPro,
	}
	if out.Features == nil {
		out.Features = []string{}
	}
	if pref != nil {
		out.HighSignalNotificationFilter = pref.HighSignalNotificationFilter
		out.IsPride = pref.IsPride
	}
	if nft != nil {
		out.HasDismissedOrMintedMembershipNft = nft.DismissedOrMinted
	}
	return out
}
