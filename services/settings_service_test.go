package services

import (
	"context"
	"sync"
	"testing"

	"github.com/kgn-corner/restaurant-api/models"
	"github.com/kgn-corner/restaurant-api/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettingsCreatesDefaultsOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := GetSettings(ctx, db)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var count int64
	db.Model(&models.RestaurantSettings{}).Count(&count)
	assert.Equal(t, int64(1), count)

	settings, err := GetSettings(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, models.SettingsID, settings.ID)
	assert.Equal(t, "KGN Chinese Corner", settings.Name)
	assert.True(t, decimal.RequireFromString("0.05").Equal(settings.TaxRate))
	assert.True(t, decimal.RequireFromString("2.99").Equal(settings.DeliveryFee))
	assert.True(t, settings.Features.Data().EnableReservations)
	assert.Equal(t, "23:00", settings.OpeningHours.Data()["friday"].Close)
}

func TestUpdateSettings(t *testing.T) {
	env := setupServiceTest(t)
	db := env.db
	ctx := context.Background()

	name := "  KGN Corner  "
	rate := decimal.RequireFromString("0.08")
	fee := decimal.RequireFromString("3.5")
	updated, err := UpdateSettings(ctx, db, SettingsUpdate{
		RestaurantName: &name,
		TaxRate:        &rate,
		DeliveryFee:    &fee,
		OpeningHours: &models.OpeningHours{
			"Monday": {IsClosed: true},
		},
		Features: &FeaturesUpdate{EnableReservations: boolPtr(false)},
	})
	require.NoError(t, err)

	assert.Equal(t, "KGN Corner", updated.Name)
	assert.True(t, rate.Equal(updated.TaxRate))
	assert.True(t, decimal.RequireFromString("3.50").Equal(updated.DeliveryFee))
	hours := updated.OpeningHours.Data()
	assert.True(t, hours["monday"].IsClosed)
	assert.Equal(t, "11:00", hours["tuesday"].Open, "untouched days keep their hours")
	assert.False(t, updated.Features.Data().EnableReservations)
	assert.True(t, updated.Features.Data().EnableOnlineOrdering)

	reloaded, err := GetSettings(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "KGN Corner", reloaded.Name)
	assert.True(t, rate.Equal(reloaded.TaxRate))

	invalid := []SettingsUpdate{
		{TaxRate: decimalPtr("1.5")},
		{TaxRate: decimalPtr("-0.1")},
		{DeliveryFee: decimalPtr("-1")},
		{TaxRate: decimalPtr("0.08875")},
		{RestaurantName: stringPtr(" ")},
		{OpeningHours: &models.OpeningHours{"funday": {Open: "10:00", Close: "11:00"}}},
		{OpeningHours: &models.OpeningHours{"monday": {Open: "10am", Close: "11:00"}}},
	}
	for i, in := range invalid {
		_, err := UpdateSettings(ctx, db, in)
		assert.True(t, IsKind(err, KindValidation), "case %d: %v", i, err)
	}
}

func TestUpdateSettingsTogglesOneFeature(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := UpdateSettings(ctx, env.db, SettingsUpdate{Features: &FeaturesUpdate{EnableDelivery: boolPtr(false)}})
	require.NoError(t, err)

	settings, err := GetSettings(ctx, env.db)
	require.NoError(t, err)
	assert.Equal(t, models.Features{
		EnableReservations:   true,
		EnableOnlineOrdering: true,
		EnableDelivery:       false,
		EnablePickup:         true,
		EnablePayments:       true,
	}, settings.Features.Data())

	_, err = UpdateSettings(ctx, env.db, SettingsUpdate{Features: &FeaturesUpdate{
		EnableDelivery: boolPtr(true),
		EnablePayments: boolPtr(false),
	}})
	require.NoError(t, err)

	settings, err = GetSettings(ctx, env.db)
	require.NoError(t, err)
	features := settings.Features.Data()
	assert.True(t, features.EnableDelivery)
	assert.False(t, features.EnablePayments)
	assert.True(t, features.EnableOnlineOrdering)
	assert.True(t, features.EnableReservations)
}

func TestUpdateSettingsTaxRatePrecision(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	updated, err := UpdateSettings(ctx, env.db, SettingsUpdate{TaxRate: decimalPtr("0.0875")})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.0875").Equal(updated.TaxRate))

	_, err = UpdateSettings(ctx, env.db, SettingsUpdate{TaxRate: decimalPtr("0.08875")})
	assert.True(t, IsKind(err, KindValidation))

	settings, err := GetSettings(ctx, env.db)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.0875").Equal(settings.TaxRate), "rejected rate is not stored")
}

func TestRenamedRestaurantAppearsInEmails(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := UpdateSettings(ctx, env.db, SettingsUpdate{RestaurantName: stringPtr("Golden Wok")})
	require.NoError(t, err)

	_, err = CreateContact(ctx, env.db, CreateContactInput{
		Name:    "Sam",
		Email:   "sam@example.com",
		Subject: "Parking",
		Message: "Is there parking nearby?",
	})
	require.NoError(t, err)
	env.notifier.Wait()

	sent := env.mailer.SentTo("sam@example.com")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Subject, "Golden Wok")
	assert.Contains(t, sent[0].HTML, "Golden Wok")
	assert.NotContains(t, sent[0].Subject, "KGN Chinese Corner")
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func stringPtr(s string) *string { return &s }
