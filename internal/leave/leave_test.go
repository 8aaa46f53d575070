package leave

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		EmployeeName: "Ada Lovelace",
		Department:   "Engineering",
		Manager:      "Raktim Shrestha",
		StartDate:    "2026-09-01",
		EndDate:      "2026-09-03",
		Reason:       "Flu",
	}
}

func TestRequest_Validate(t *testing.T) {
	assert.NoError(t, validRequest().Validate())

	r := validRequest()
	r.Department = "  "
	assert.ErrorIs(t, r.Validate(), ErrMissingField)

	r = validRequest()
	r.EndDate = "2026-08-30"
	assert.ErrorIs(t, r.Validate(), ErrDateOrder)

	r = validRequest()
	r.StartDate = "tomorrow"
	assert.ErrorContains(t, r.Validate(), "invalid start date")

	r = validRequest()
	r.StartDate = "2026-09-01"
	r.EndDate = "2026-09-01"
	assert.NoError(t, r.Validate(), "single day leave is fine")
}

func TestClient_Submit(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", got.EmployeeName)
	assert.Equal(t, "Raktim Shrestha", got.Manager)
	assert.NotEmpty(t, got.SubmittedAt)
}

func TestClient_SubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Submit(context.Background(), validRequest())
	assert.ErrorContains(t, err, "HTTP 422")
}

func TestClient_SubmitInvalidSkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	r := validRequest()
	r.Reason = ""
	err := NewClient(srv.URL).Submit(context.Background(), r)

	assert.ErrorIs(t, err, ErrMissingField)
	assert.False(t, called)
}
