package types

// ProfilePreferences is the aggregated per-profile preference object returned
// by the preferences read endpoint. Absent rows coerce to false / empty.
type ProfilePreferences struct {
	Features                          []string `json:"features"`
	HasDismissedOrMintedMembershipNft bool     `json:"hasDismissedOrMintedMembershipNft"`
	HighSignalNotificationFilter      bool     `json:"highSignalNotificationFilter"`
	IsPride                           bool     `json:"isPride"`
	IsPro                             bool     `json:"isPro"`
}
