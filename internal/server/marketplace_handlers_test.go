package server

import (
	"fmt"
	"net/http"
	"testing"

	"bazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMarketplaceFlow walks the whole deal pipeline over HTTP: offer,
// negotiation, messages, acceptance, contract status updates.
func TestMarketplaceFlow(t *testing.T) {
	s, app := newTestServer(t)
	_, providerToken := createTestUser(t, s, "provider", false)
	_, clientToken := createTestUser(t, s, "client", false)

	// Provider publishes an offer.
	status, body := doJSON(t, app, http.MethodPost, "/api/offers", providerToken, map[string]any{
		"title":       "Garden maintenance",
		"description": "Weekly mowing and pruning",
		"category":    "gardening",
		"price":       4500,
	})
	require.Equal(t, http.StatusCreated, status)
	offerID := uint(body["id"].(float64))

	// Provider cannot negotiate on their own offer.
	negotiatePath := fmt.Sprintf("/api/offers/%d/negotiations", offerID)
	status, _ = doJSON(t, app, http.MethodPost, negotiatePath, providerToken, map[string]any{
		"message": "talking to myself",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Client opens a negotiation.
	status, body = doJSON(t, app, http.MethodPost, negotiatePath, clientToken, map[string]any{
		"message": "Could you start next week?",
	})
	require.Equal(t, http.StatusCreated, status)
	negID := uint(body["id"].(float64))

	// Opening again returns the same open thread.
	status, body = doJSON(t, app, http.MethodPost, negotiatePath, clientToken, map[string]any{
		"message": "Following up.",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(negID), body["id"])

	// Both parties exchange messages.
	messagesPath := fmt.Sprintf("/api/negotiations/%d/messages", negID)
	status, _ = doJSON(t, app, http.MethodPost, messagesPath, providerToken, map[string]any{
		"body": "Next week works. Monday morning?",
	})
	require.Equal(t, http.StatusCreated, status)

	// A stranger cannot read the thread.
	_, strangerToken := createTestUser(t, s, "stranger", false)
	status, _ = doJSON(t, app, http.MethodGet, messagesPath, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Only the provider may accept.
	acceptPath := fmt.Sprintf("/api/negotiations/%d/accept", negID)
	status, _ = doJSON(t, app, http.MethodPost, acceptPath, clientToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = doJSON(t, app, http.MethodPost, acceptPath, providerToken, nil)
	require.Equal(t, http.StatusCreated, status)
	contractID := uint(body["id"].(float64))
	reference, ok := body["reference"].(string)
	require.True(t, ok)
	assert.Equal(t, float64(4500), body["price"])
	assert.Equal(t, models.ContractStatusPending, body["status"])

	// Accepting twice conflicts, and only one contract exists.
	status, _ = doJSON(t, app, http.MethodPost, acceptPath, providerToken, nil)
	assert.Equal(t, http.StatusConflict, status)
	var contractCount int64
	require.NoError(t, s.db.Model(&models.Contract{}).
		Where("negotiation_id = ?", negID).Count(&contractCount).Error)
	assert.Equal(t, int64(1), contractCount)

	// The closed thread refuses further messages.
	status, _ = doJSON(t, app, http.MethodPost, messagesPath, clientToken, map[string]any{
		"body": "One more thing",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Contract is visible by ID and by reference to its parties.
	contractPath := fmt.Sprintf("/api/contracts/%d", contractID)
	status, _ = doJSON(t, app, http.MethodGet, contractPath, clientToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/contracts/reference/"+reference, providerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, contractPath, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Client activates, provider completes.
	statusPath := contractPath + "/status"
	status, body = doJSON(t, app, http.MethodPost, statusPath, clientToken, map[string]any{
		"status": models.ContractStatusActive,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.ContractStatusActive, body["status"])

	// Provider cannot activate, client cannot complete.
	status, _ = doJSON(t, app, http.MethodPost, statusPath, clientToken, map[string]any{
		"status": models.ContractStatusCompleted,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = doJSON(t, app, http.MethodPost, statusPath, providerToken, map[string]any{
		"status": models.ContractStatusCompleted,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.ContractStatusCompleted, body["status"])
}

func TestOfferUpdateOwnership(t *testing.T) {
	s, app := newTestServer(t)
	_, providerToken := createTestUser(t, s, "provider", false)
	_, strangerToken := createTestUser(t, s, "stranger", false)

	status, body := doJSON(t, app, http.MethodPost, "/api/offers", providerToken, map[string]any{
		"title":       "Logo design",
		"description": "Vector logo with two revisions",
		"category":    "design",
		"price":       12000,
	})
	require.Equal(t, http.StatusCreated, status)
	offerPath := fmt.Sprintf("/api/offers/%d", uint(body["id"].(float64)))

	status, _ = doJSON(t, app, http.MethodPut, offerPath, strangerToken, map[string]any{
		"title": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = doJSON(t, app, http.MethodPut, offerPath, providerToken, map[string]any{
		"status": models.OfferStatusPaused,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.OfferStatusPaused, body["status"])

	status, _ = doJSON(t, app, http.MethodDelete, offerPath, providerToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestDeclineNegotiation(t *testing.T) {
	s, app := newTestServer(t)
	_, providerToken := createTestUser(t, s, "provider", false)
	_, clientToken := createTestUser(t, s, "client", false)

	status, body := doJSON(t, app, http.MethodPost, "/api/offers", providerToken, map[string]any{
		"title":       "Tax filing",
		"description": "Annual returns for freelancers",
		"category":    "legal",
		"price":       30000,
	})
	require.Equal(t, http.StatusCreated, status)
	offerID := uint(body["id"].(float64))

	status, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/offers/%d/negotiations", offerID), clientToken, map[string]any{
			"message": "Do you handle crypto gains?",
		})
	require.Equal(t, http.StatusCreated, status)
	negID := uint(body["id"].(float64))

	status, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/negotiations/%d/decline", negID), providerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.NegotiationStatusDeclined, body["status"])

	// Declining a closed thread conflicts.
	status, _ = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/negotiations/%d/decline", negID), clientToken, nil)
	assert.Equal(t, http.StatusConflict, status)
}
