package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chhotalabhavik/cleanout/app/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.StatusPending, models.StatusDispatched, true},
		{models.StatusPending, models.StatusBeingServed, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusDelivered, false},
		{models.StatusDispatched, models.StatusDelivered, true},
		{models.StatusDispatched, models.StatusCancelled, true},
		{models.StatusDispatched, models.StatusPending, false},
		{models.StatusBeingServed, models.StatusDelivered, true},
		{models.StatusBeingServed, models.StatusPending, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusPending, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusDelivered, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, models.CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestCanTransitionItemPack(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.StatusPending, models.StatusDispatched, true},
		{models.StatusDispatched, models.StatusDelivered, true},
		{models.StatusPending, models.StatusDelivered, false},
		// BEING_SERVED and CANCELLED never enter through the shipping path.
		{models.StatusPending, models.StatusBeingServed, false},
		{models.StatusPending, models.StatusCancelled, false},
		{models.StatusDispatched, models.StatusBeingServed, false},
		{models.StatusDispatched, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusDispatched, false},
		{models.StatusBeingServed, models.StatusDelivered, false},
		{"", "", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, models.CanTransitionItemPack(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTerminalStatus(t *testing.T) {
	assert.True(t, models.TerminalStatus(models.StatusDelivered))
	assert.True(t, models.TerminalStatus(models.StatusCancelled))
	assert.False(t, models.TerminalStatus(models.StatusPending))
	assert.False(t, models.TerminalStatus(models.StatusDispatched))
	assert.False(t, models.TerminalStatus(models.StatusBeingServed))
}

func packs(statuses ...string) []models.OrderItemPack {
	out := make([]models.OrderItemPack, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, models.OrderItemPack{Status: s})
	}
	return out
}

func TestAggregateStatus(t *testing.T) {
	// The least-advanced non-cancelled pack decides the order.
	assert.Equal(t, models.StatusPending,
		models.AggregateStatus(packs(models.StatusDelivered, models.StatusPending)))
	assert.Equal(t, models.StatusDispatched,
		models.AggregateStatus(packs(models.StatusDispatched, models.StatusDelivered)))
	assert.Equal(t, models.StatusDelivered,
		models.AggregateStatus(packs(models.StatusDelivered, models.StatusDelivered)))

	// Cancelled packs are ignored unless every pack is cancelled.
	assert.Equal(t, models.StatusDelivered,
		models.AggregateStatus(packs(models.StatusCancelled, models.StatusDelivered)))
	assert.Equal(t, models.StatusCancelled,
		models.AggregateStatus(packs(models.StatusCancelled, models.StatusCancelled)))

	assert.Equal(t, models.StatusCancelled, models.AggregateStatus(nil))
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{
		models.RoleUser, models.RoleWorker, models.RoleShopkeeper,
		models.RoleCoadmin, models.RoleAdmin,
	} {
		assert.True(t, models.ValidRole(role))
	}
	assert.False(t, models.ValidRole("SUPERADMIN"))
	assert.False(t, models.ValidRole(""))
}
