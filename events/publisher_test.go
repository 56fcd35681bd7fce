package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gst-billing-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	ev := Event{
		Type:       TypeDocumentCreated,
		CompanyID:  "c1",
		DocumentID: 7,
		OccurredAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Payload: DocumentRender{
			Company:  models.Company{Id: "c1", CompanyName: "Acme"},
			Document: models.Document{ID: 7, DocumentNumber: "INV-7"},
		},
	}
	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "document.created", out["type"])
	assert.Equal(t, "c1", out["company_id"])
	assert.EqualValues(t, 7, out["document_id"])
	payload := out["payload"].(map[string]any)
	assert.Equal(t, "Acme", payload["company"].(map[string]any)["company_name"])
	assert.Equal(t, "INV-7", payload["document"].(map[string]any)["document_number"])
}

func TestNewPubSubPublisherRequiresTopic(t *testing.T) {
	_, err := NewPubSubPublisher(context.Background(), "project", "", "")
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = LogPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypeDocumentOverdue}))
}
