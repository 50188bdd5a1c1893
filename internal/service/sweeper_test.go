package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodsaver/internal/models"
	"foodsaver/internal/observability"
	"foodsaver/internal/repository"
	"foodsaver/internal/storage"
)

func TestSweeperRunOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	donations := repository.NewDonationRepository(store)
	svc := NewDonationService(donations, repository.NewClaimLedger(store))
	ctx := context.Background()

	d := listFood(t, svc, donorActor, "Milk")
	keeper := listFood(t, svc, donorActor, "Rice")

	sweeper := NewSweeper(donations, time.Minute)
	sweeper.now = func() time.Time { return d.ExpiryDate.Add(time.Hour) }

	sweptBefore := testutil.ToFloat64(observability.SweepTransitions)

	// First run expires the overdue listings, the second finds nothing.
	expired, err := sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.Equal(t, sweptBefore+2, testutil.ToFloat64(observability.SweepTransitions))

	expired, err = sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	got, err := donations.GetByID(ctx, keeper.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, got.Status)
}

func TestSweeperLeavesUnexpiredAlone(t *testing.T) {
	store := storage.NewMemoryStore()
	donations := repository.NewDonationRepository(store)
	svc := NewDonationService(donations, repository.NewClaimLedger(store))
	ctx := context.Background()

	d := listFood(t, svc, donorActor, "Rice")

	sweeper := NewSweeper(donations, time.Minute)
	expired, err := sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	got, err := donations.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, got.Status)
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	store := storage.NewMemoryStore()
	donations := repository.NewDonationRepository(store)

	sweeper := NewSweeper(donations, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestNewSweeperDefaultsInterval(t *testing.T) {
	sweeper := NewSweeper(nil, 0)
	assert.Equal(t, time.Minute, sweeper.interval)
}
