package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireID_AcceptsStringsAndNumbers(t *testing.T) {
	var r Restaurant
	require.NoError(t, json.Unmarshal([]byte(`{"id":12,"name":"A"}`), &r))
	assert.Equal(t, WireID("12"), r.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc-1","name":"A"}`), &r))
	assert.Equal(t, WireID("abc-1"), r.ID)

	var inv Invoice
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"restaurant":null,"created_date":"x"}`), &inv))
	assert.Empty(t, inv.Restaurant)

	assert.Error(t, json.Unmarshal([]byte(`{"id":{"nested":true}}`), &r))
}

func TestCreateInvoiceRequest_WireShape(t *testing.T) {
	body, err := json.Marshal(CreateInvoiceRequest{Restaurant: "7", UploadID: "42", Image: "https://cdn/x.jpg"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"restaurant":"7","upload_id":"42","image":"https://cdn/x.jpg"}`, string(body))
}

func TestSubmissionResult_Event(t *testing.T) {
	res := SubmissionResult{
		Photo:        CapturedPhoto{Filename: "a.jpg", Width: 10, Height: 20},
		RestaurantID: "7",
		Stage:        StageDone,
		Ticket:       &SignedUploadTicket{UploadID: "42", URL: "https://cdn/a.jpg"},
		UploadStatus: 200,
	}
	assert.True(t, res.OK())

	ev := res.Event()
	assert.Equal(t, "42", ev.UploadID)
	assert.Equal(t, "https://cdn/a.jpg", ev.ImageURL)
	assert.Empty(t, ev.Error)
	assert.Equal(t, 200, CapturedPhoto{Width: 10, Height: 20}.Pixels())
}
