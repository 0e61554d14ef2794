package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormsClient_Submit(t *testing.T) {
	var gotPath string
	var got formPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewFormsClient(Config{FormsEndpoint: srv.URL + "/submit/", PortalID: "123", FormID: "form-1", Timeout: time.Second})
	err := client.Submit(context.Background(), Submission{
		Email:     "ada@example.com",
		FirstName: "Ada",
		Company:   "Analytical",
		PageURI:   "https://example.com/blog",
		PageName:  "Blog",
		Consent:   true,
		IPAddress: "203.0.113.7",
	})
	require.NoError(t, err)

	assert.Equal(t, "/submit/123/form-1", gotPath)
	want := formPayload{
		Fields: []formField{
			{Name: "email", Value: "ada@example.com"},
			{Name: "firstname", Value: "Ada"},
			{Name: "company", Value: "Analytical"},
		},
		Context: formContext{PageURI: "https://example.com/blog", PageName: "Blog", IPAddress: "203.0.113.7"},
		LegalConsentOptions: &legalConsent{
			Consent: consentToProcess{ConsentToProcess: true, Text: consentText},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestFormsClient_NoConsent(t *testing.T) {
	p := buildPayload(Submission{Email: "a@b.co"})
	assert.Nil(t, p.LegalConsentOptions)
	assert.Len(t, p.Fields, 1)
}

func TestFormsClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","message":"INVALID_EMAIL"}`))
	}))
	defer srv.Close()

	client := NewFormsClient(Config{FormsEndpoint: srv.URL, PortalID: "1", FormID: "2", Timeout: time.Second})
	err := client.Submit(context.Background(), Submission{Email: "a@b.co"})

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Contains(t, upstream.Error(), "INVALID_EMAIL")
}

func TestFormsClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewFormsClient(Config{FormsEndpoint: url, PortalID: "1", FormID: "2", Timeout: time.Second})
	err := client.Submit(context.Background(), Submission{Email: "a@b.co"})
	require.Error(t, err)

	var upstream *UpstreamError
	assert.False(t, errors.As(err, &upstream))
}
