package types

// FeatureType tags feature-flag rows. Kill switches are operational toggles
// and are never surfaced to profiles through the preferences read.
type FeatureType string

const (
	FeatureTypeFeature    FeatureType = "FEATURE"
	FeatureTypeKillSwitch FeatureType = "KILL_SWITCH"
)
