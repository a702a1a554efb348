package galaxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const envelopeOK = `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <GetResourceInfoResponse>
      <resource>
        <id>42</id>
        <name>Arveshian Steel</name>
        <class_id>3</class_id>
        <available_timestamp>1700000000</available_timestamp>
        <stats><oq>950</oq><sr>812</sr></stats>
      </resource>
    </GetResourceInfoResponse>
  </soap:Body>
</soap:Envelope>`

func TestClient_LookupByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "<GetResourceInfo>")
		assert.Contains(t, string(body), "Arveshian Steel")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(envelopeOK))
	}))
	defer server.Close()

	client := NewClient(server.URL, 60, 0)
	info, err := client.LookupByName(context.Background(), "Arveshian Steel")
	require.NoError(t, err)
	require.True(t, info.Valid())

	assert.Equal(t, int64(42), info.ID)
	assert.Equal(t, "Arveshian Steel", info.Name)
	assert.Equal(t, int64(3), info.ClassNumericID)
	assert.Equal(t, int64(1700000000), info.AvailableAt)

	oq, ok := info.Stats.Get("oq")
	require.True(t, ok)
	assert.Equal(t, 950, oq)
}

func TestClient_LookupByID_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 60, 0)
	info, err := client.LookupByID(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteCall)
	assert.Nil(t, info)
}

func TestParseResourceInfo_ScrapeFallback(t *testing.T) {
	// Broken envelope nesting plus a bare ampersand; the structured decode
	// may mangle it but the scrape path still recovers the fields.
	payload := []byte(`<soap:Envelope><soap:Body><GetResourceInfoResponse>
<id>7</id><name>Polysteel Copper & Co</name><class_id>12</class_id><oq>441</oq>
</soap:Envelope>`)

	info, err := ParseResourceInfo(payload)
	require.NoError(t, err)
	require.True(t, info.Valid())
	assert.Equal(t, int64(7), info.ID)
	assert.Equal(t, int64(12), info.ClassNumericID)
}

func TestParseResourceInfo_MalformedDiscarded(t *testing.T) {
	// No id at all: not usable, must not be persisted.
	payload := []byte(`<soap:Envelope><soap:Body><resource><name>Ghost</name></resource></soap:Body></soap:Envelope>`)
	info, err := ParseResourceInfo(payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteCall)
	assert.Nil(t, info)
}
