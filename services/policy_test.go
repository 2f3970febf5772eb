package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyeonsu-lee/goboard/models"
)

func TestCanModify(t *testing.T) {
	owner := testUser(7, models.RoleUser)
	other := testUser(2, models.RoleUser)
	admin := testUser(1, models.RoleAdmin)

	assert.False(t, CanModify(nil, 7), "nil actor may modify nothing")
	assert.True(t, CanModify(owner, 7), "owner may modify own content")
	assert.False(t, CanModify(other, 7), "non-owner may not modify")
	assert.True(t, CanModify(admin, 7), "admin may modify anything")
}
