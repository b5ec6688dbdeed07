package config

import (
	"path/filepath"
	"testing"

	"github.com/kgn-corner/restaurant-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsRepeatable(t *testing.T) {
	original := DB
	defer SetDB(original)

	require.NoError(t, ConnectDatabase("sqlite://"+filepath.Join(t.TempDir(), "seed.db")))
	db := GetDB()
	require.NoError(t, Migrate(db))

	for i := 0; i < 2; i++ {
		require.NoError(t, Seed(db), "run %d", i+1)
	}

	var users, items, testimonials, settings int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.MenuItem{}).Count(&items)
	db.Model(&models.Testimonial{}).Where("is_approved = ?", true).Count(&testimonials)
	db.Model(&models.RestaurantSettings{}).Count(&settings)
	assert.Equal(t, int64(2), users)
	assert.Equal(t, int64(8), items)
	assert.Equal(t, int64(5), testimonials)
	assert.Equal(t, int64(1), settings)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@kgn.com").First(&admin).Error)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.CheckPassword("admin123"))

	var chef int64
	db.Model(&models.MenuItem{}).Where("is_chef_recommendation = ?", true).Count(&chef)
	assert.Equal(t, int64(3), chef)
}
