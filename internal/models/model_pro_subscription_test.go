package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProSubscriptionActive(t *testing.T) {
	assert.True(t, (&ProSubscription{ExpiresAt: time.Now().Add(time.Hour)}).Active())
	assert.False(t, (&ProSubscription{ExpiresAt: time.Now().Add(-time.Hour)}).Active())
	assert.False(t, (&ProSubscription{}).Active())

	var nilSub *ProSubscription
	assert.False(t, nilSub.Active())
}
