package external_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/realestate-crm/internal/core/domain/lookup"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/external"
)

func TestPostalCodeClient_Lookup(t *testing.T) {
	c := external.NewPostalCodeClient(0, nil)

	res, err := c.Lookup(context.Background(), "150-0001")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", res.Prefecture)
	assert.Equal(t, "Chiyoda", res.City)
	assert.True(t, res.Success)

	for _, bad := range []string{"1500001", "150-00011", "15-00001", ""} {
		_, err := c.Lookup(context.Background(), bad)
		assert.ErrorIs(t, err, lookup.ErrInvalidPostalCode, bad)
	}
}

func TestPhoneNumberClient_Lookup(t *testing.T) {
	c := external.NewPhoneNumberClient(0, nil)

	res, err := c.Lookup(context.Background(), "090-1234-5678")
	require.NoError(t, err)
	assert.Equal(t, "Mobile", res.Type)
	assert.True(t, res.IsValid)

	res, err = c.Lookup(context.Background(), "+81312345678")
	require.NoError(t, err)
	assert.Equal(t, "Toll-free", res.Type)

	_, err = c.Lookup(context.Background(), "12345")
	assert.ErrorIs(t, err, lookup.ErrInvalidPhoneNumber)
}

func TestRegistryClient(t *testing.T) {
	c := external.NewRegistryClient("", 0, nil)
	ctx := context.Background()

	login, err := c.Login(ctx)
	require.NoError(t, err)
	assert.True(t, login.Success)

	res, err := c.Search(ctx, lookup.RegistrySearchCriteria{Name: "Yamada"})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Yamada", res.Results[0].Owner)
	assert.Equal(t, "Unknown", res.Results[0].Address)

	details, err := c.Details(ctx, "REG123456")
	require.NoError(t, err)
	assert.Equal(t, "REG123456", details.RegistryID)
	assert.Len(t, details.OwnershipHistory, 1)
}

func TestThrottleSpacesCalls(t *testing.T) {
	c := external.NewPostalCodeClient(50*time.Millisecond, nil)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Lookup(ctx, "100-0001")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestThrottleHonoursContext(t *testing.T) {
	c := external.NewRegistryClient("agent", time.Hour, nil)

	_, err := c.Login(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Search(ctx, lookup.RegistrySearchCriteria{Address: "Tokyo"})
	assert.Error(t, err)
}
