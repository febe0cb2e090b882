package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleSuperAdmin.Valid())
	assert.False(t, Role("WIZARD").Valid())
	assert.False(t, Role("").Valid())
	// roles are case-sensitive
	assert.False(t, Role("user").Valid())
}

func TestRole_In(t *testing.T) {
	assert.True(t, RoleAdmin.In(RoleAdmin, RoleSuperAdmin))
	assert.True(t, RoleSuperAdmin.In(RoleAdmin, RoleSuperAdmin))
	assert.False(t, RoleUser.In(RoleAdmin, RoleSuperAdmin))
	assert.False(t, RoleUser.In())
}
