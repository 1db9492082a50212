package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	cfg := New()

	assert.Equal(t, "", cfg.Store.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Redis.LockTTL)
	assert.Nil(t, cfg.Workflow.TechnicianIDs)
}

func TestNew_ParsesTypedValues(t *testing.T) {
	t.Setenv("REDIS_LOCKS", "true")
	t.Setenv("LOCK_TTL", "3s")
	t.Setenv("TECHNICIAN_IDS", "7, 9,bogus,11")
	t.Setenv("S3_PATH_STYLE", "not-a-bool")

	cfg := New()

	assert.True(t, cfg.Redis.Locks)
	assert.Equal(t, 3*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, []uint64{7, 9, 11}, cfg.Workflow.TechnicianIDs)
	assert.False(t, cfg.FileStorage.S3PathStyle)
}
