package service

import (
	"context"
	"testing"

	"bazaar/internal/models"
	"bazaar/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Accept spans a transaction, so negotiation tests run against in-memory
// sqlite with real repositories.
func newNegotiationFixture(t *testing.T) (*NegotiationService, *gorm.DB, *models.User, *models.User, *models.Offer) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewNegotiationService(db, repository.NewNegotiationRepository(db), repository.NewOfferRepository(db))

	provider := &models.User{Username: "provider", Email: "p@example.com", Password: "hashed"}
	client := &models.User{Username: "client", Email: "c@example.com", Password: "hashed"}
	require.NoError(t, db.Create(provider).Error)
	require.NoError(t, db.Create(client).Error)

	offer := &models.Offer{
		UserID: provider.ID, Title: "Gardening", Description: "Weekly upkeep",
		Category: "outdoors", Price: 12000, Status: models.OfferStatusActive,
	}
	require.NoError(t, db.Create(offer).Error)

	return svc, db, provider, client, offer
}

func TestNegotiationService_OpenNegotiation(t *testing.T) {
	svc, db, provider, client, offer := newNegotiationFixture(t)
	ctx := context.Background()

	t.Run("provider cannot negotiate own offer", func(t *testing.T) {
		_, err := svc.OpenNegotiation(ctx, OpenNegotiationInput{ClientID: provider.ID, OfferID: offer.ID})
		assertValidationError(t, err)
	})

	t.Run("opens thread with first message", func(t *testing.T) {
		n, err := svc.OpenNegotiation(ctx, OpenNegotiationInput{
			ClientID: client.ID, OfferID: offer.ID, Message: "Could you do Tuesdays?",
		})
		assert.NoError(t, err)
		assert.Equal(t, models.NegotiationStatusOpen, n.Status)
		assert.Equal(t, provider.ID, n.ProviderID)

		msgs, err := svc.ListMessages(ctx, client.ID, n.ID, 10, 0)
		assert.NoError(t, err)
		assert.Len(t, msgs, 1)
	})

	t.Run("reopening returns the existing thread", func(t *testing.T) {
		first, err := svc.OpenNegotiation(ctx, OpenNegotiationInput{ClientID: client.ID, OfferID: offer.ID})
		require.NoError(t, err)

		second, err := svc.OpenNegotiation(ctx, OpenNegotiationInput{ClientID: client.ID, OfferID: offer.ID})
		assert.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		require.NoError(t, db.Model(&models.Negotiation{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("paused offer rejected", func(t *testing.T) {
		paused := &models.Offer{
			UserID: provider.ID, Title: "Paused", Description: "d",
			Price: 100, Status: models.OfferStatusPaused,
		}
		require.NoError(t, db.Create(paused).Error)

		_, err := svc.OpenNegotiation(ctx, OpenNegotiationInput{ClientID: client.ID, OfferID: paused.ID})
		assertValidationError(t, err)
	})
}

func TestNegotiationService_SendMessage(t *testing.T) {
	svc, _, provider, client, offer := newNegotiationFixture(t)
	ctx := context.Background()

	n, err := svc.OpenNegotiation(ctx, OpenNegotiationInput{ClientID: client.ID, OfferID: offer.ID})
	require.NoError(t, err)

	t.Run("both parties can write", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, SendMessageInput{SenderID: client.ID, NegotiationID: n.ID, Body: "hello"})
		assert.NoError(t, err)
		_, err = svc.SendMessage(ctx, SendMessageInput{SenderID: provider.ID, NegotiationID: n.ID, Body: "hi"})
		assert.NoError(t, err)
	})

	t.Run("outsider rejected", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, SendMessageInput{SenderID: 9999, NegotiationID: n.ID, Body: "let me in"})
		assertUnauthorizedError(t, err)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, SendMessageInput{SenderID: client.ID, NegotiationID: n.ID})
		assertValidationError(t, err)
	})
}

func TestNegotiationService_Accept(t *testing.T) {
	svc, db, provider, client, offer := newNegotiationFixture(t)
	ctx := context.Background()

	n, err := svc.OpenNegotiation(ctx, OpenNegotiationInput{ClientID: client.ID, OfferID: offer.ID})
	require.NoError(t, err)

	t.Run("client cannot accept", func(t *testing.T) {
		_, err := svc.Accept(ctx, client.ID, n.ID)
		assertUnauthorizedError(t, err)
	})

	t.Run("provider accepts and contract is issued", func(t *testing.T) {
		contract, err := svc.Accept(ctx, provider.ID, n.ID)
		assert.NoError(t, err)
		assert.NotEmpty(t, contract.Reference)
		assert.Equal(t, offer.Price, contract.Price)
		assert.Equal(t, models.ContractStatusPending, contract.Status)

		got, err := svc.GetNegotiation(ctx, provider.ID, n.ID)
		require.NoError(t, err)
		assert.Equal(t, models.NegotiationStatusAccepted, got.Status)
	})

	t.Run("second accept conflicts", func(t *testing.T) {
		_, err := svc.Accept(ctx, provider.ID, n.ID)
		assertConflictError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Contract{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("closed thread refuses messages", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, SendMessageInput{SenderID: client.ID, NegotiationID: n.ID, Body: "wait"})
		assertValidationError(t, err)
	})
}

func TestNegotiationService_Decline(t *testing.T) {
	svc, _, _, client, offer := newNegotiationFixture(t)
	ctx := context.Background()

	n, err := svc.OpenNegotiation(ctx, OpenNegotiationInput{ClientID: client.ID, OfferID: offer.ID})
	require.NoError(t, err)

	t.Run("outsider rejected", func(t *testing.T) {
		_, err := svc.Decline(ctx, 9999, n.ID)
		assertUnauthorizedError(t, err)
	})

	t.Run("client declines", func(t *testing.T) {
		got, err := svc.Decline(ctx, client.ID, n.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.NegotiationStatusDeclined, got.Status)
	})

	t.Run("double decline conflicts", func(t *testing.T) {
		_, err := svc.Decline(ctx, client.ID, n.ID)
		assertConflictError(t, err)
	})
}
