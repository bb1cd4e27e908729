package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAccessLevel(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		roles         []string
		want          AccessLevel
	}{
		{"unauthenticated", false, nil, AccessGuest},
		{"unauthenticated with roles", false, []string{RoleVIP}, AccessGuest},
		{"plain user", true, []string{RoleUser}, AccessUser},
		{"no roles still user", true, nil, AccessUser},
		{"donator", true, []string{RoleUser, RoleDonator}, AccessDonator},
		{"vip", true, []string{RoleUser, RoleVIP}, AccessVIP},
		{"vip wins over donator", true, []string{RoleDonator, RoleVIP}, AccessVIP},
		{"admin role alone is user tier", true, []string{RoleAdmin}, AccessUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAccessLevel(tt.authenticated, tt.roles))
		})
	}
}

func TestAccessLevelRules(t *testing.T) {
	assert.False(t, AccessGuest.CanPaginate())
	assert.False(t, AccessUser.CanPaginate())
	assert.True(t, AccessDonator.CanPaginate())
	assert.True(t, AccessVIP.CanPaginate())

	assert.Equal(t, 10, AccessGuest.PageSize())
	assert.Equal(t, 10, AccessUser.PageSize())
	assert.Equal(t, 20, AccessDonator.PageSize())
	assert.Equal(t, 20, AccessVIP.PageSize())

	assert.False(t, AccessUser.UnlimitedViews())
	assert.True(t, AccessDonator.UnlimitedViews())
	assert.True(t, AccessVIP.UnlimitedViews())
}
