package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromFormTrims(t *testing.T) {
	req := FromForm(url.Values{
		"name":    {"  Jens Hansen "},
		"phone":   {" 12 34 56 78"},
		"service": {"flisearbejde "},
	})
	require.Equal(t, "Jens Hansen", req.Name)
	require.Equal(t, "12 34 56 78", req.Phone)
	require.Equal(t, "flisearbejde", req.Service)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		req    Request
		fields []string
	}{
		"valid with phone": {req: Request{Name: "Jens", Phone: "12345678"}},
		"valid with email": {req: Request{Name: "Jens", Email: "jens@example.dk", Postal: "4300"}},
		"missing name":     {req: Request{Phone: "12345678"}, fields: []string{"name"}},
		"no contact":       {req: Request{Name: "Jens"}, fields: []string{"phone"}},
		"short phone":      {req: Request{Name: "Jens", Phone: "1234"}, fields: []string{"phone"}},
		"bad email":        {req: Request{Name: "Jens", Email: "Jens <jens@example.dk>"}, fields: []string{"email"}},
		"bad postal":       {req: Request{Name: "Jens", Phone: "12345678", Postal: "43a0"}, fields: []string{"postal"}},
		"message too long": {req: Request{Name: "Jens", Phone: "12345678", Message: strings.Repeat("x", maxMessageLength+1)}, fields: []string{"message"}},
		"several problems": {req: Request{Email: "nope"}, fields: []string{"name", "email"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			errs := tc.req.Validate()
			if len(tc.fields) == 0 {
				require.Nil(t, errs)
				return
			}
			require.Len(t, errs, len(tc.fields))
			for _, f := range tc.fields {
				require.True(t, errs.Has(f), "expected error for %s, got %v", f, errs)
			}
		})
	}
}

func TestSubmitWithoutWebhookReturnsLocalReceipt(t *testing.T) {
	c := NewClient("")
	require.False(t, c.Configured())
	receipt, err := c.Submit(context.Background(), Request{Name: "Jens", Phone: "12345678"})
	require.NoError(t, err)
	require.NotEmpty(t, receipt.ID)
	require.Equal(t, "queued", receipt.Status)
	require.False(t, receipt.Delivered)
}

func TestSubmitPostsToWebhook(t *testing.T) {
	var got webhookPayload
	var idem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		idem = r.Header.Get(idempotencyHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"crm-42","status":"assigned"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	receipt, err := c.Submit(context.Background(), Request{Name: "Jens", Phone: "12345678", Service: "tilbygninger"})
	require.NoError(t, err)
	require.Equal(t, "crm-42", receipt.ID)
	require.Equal(t, "assigned", receipt.Status)
	require.True(t, receipt.Delivered)
	require.Equal(t, "Jens", got.Name)
	require.Equal(t, "tilbygninger", got.Service)
	require.Equal(t, got.ID, idem)
}

func TestSubmitEmptyWebhookBodyKeepsLocalID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	receipt, err := NewClient(srv.URL).Submit(context.Background(), Request{Name: "Jens", Phone: "12345678"})
	require.NoError(t, err)
	require.NotEmpty(t, receipt.ID)
	require.Equal(t, "received", receipt.Status)
}

func TestSubmitWebhookFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Submit(context.Background(), Request{Name: "Jens", Phone: "12345678"})
	require.ErrorIs(t, err, ErrDeliveryFailed)
}
