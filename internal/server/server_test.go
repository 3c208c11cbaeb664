// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/utmconv/internal/export"
	"github.com/pdiddy/utmconv/internal/session"
	"github.com/pdiddy/utmconv/internal/utm"
	"github.com/pdiddy/utmconv/pkg/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *session.Memory) {
	t.Helper()
	return newTestServerWithConfig(t, types.ConverterConfig{Precision: export.DefaultPrecision})
}

func newTestServerWithConfig(t *testing.T, cfg types.ConverterConfig) (*httptest.Server, *session.Memory) {
	t.Helper()
	store := session.NewMemory()
	srv := New(utm.Default(), store, cfg, 0)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, store
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantStatus    int
		wantFormatted string
		wantError     string
	}{
		{
			name:          "form input uses default zone 40",
			body:          `{"input":"330000 2790000"}`,
			wantStatus:    http.StatusOK,
			wantFormatted: "25.216612, 55.312511",
		},
		{
			name:          "numeric fields",
			body:          `{"easting":500000,"northing":0,"zone":31}`,
			wantStatus:    http.StatusOK,
			wantFormatted: "0.000000, 3.000000",
		},
		{
			name:          "southern hemisphere",
			body:          `{"easting":333000,"northing":6250000,"zone":56,"southern":true}`,
			wantStatus:    http.StatusOK,
			wantFormatted: "-33.877133, 151.194330",
		},
		{
			name:       "single value",
			body:       `{"input":"330000"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "enter both easting and northing",
		},
		{
			name:       "non-numeric",
			body:       `{"input":"abc 2790000"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid values",
		},
		{
			name:       "zone out of range",
			body:       `{"input":"330000 2790000","zone":61}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid UTM zone 61",
		},
		{
			name:       "unknown field",
			body:       `{"x":1}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid JSON payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, store := newTestServer(t)
			resp, out := postJSON(t, ts.URL+"/api/convert", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			records, err := store.Records(context.Background())
			require.NoError(t, err)

			if tt.wantError != "" {
				assert.Contains(t, out["error"], tt.wantError)
				assert.Empty(t, records)
				return
			}
			assert.Equal(t, tt.wantFormatted, out["formatted"])
			assert.Len(t, records, 1)
		})
	}
}

func TestBulkRawBody(t *testing.T) {
	ts, store := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/bulk", "text/csv",
		strings.NewReader("330000,2790000\nbad\n500000,2800000\n"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Lines     []string `json:"lines"`
		Converted int      `json:"converted"`
		Malformed int      `json:"malformed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []string{"25.216612, 55.312511", "Invalid line format", "25.316553, 57.000000"}, out.Lines)
	assert.Equal(t, 2, out.Converted)
	assert.Equal(t, 1, out.Malformed)

	records, err := store.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestBulkMultipart(t *testing.T) {
	ts, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "points.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("330000,2790000\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/bulk", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBulkMissingFile(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, out := postJSON(t, ts.URL+"/api/bulk", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "please upload a CSV file", out["error"])
}

func TestDownloadAndClear(t *testing.T) {
	ts, _ := newTestServer(t)
	postJSON(t, ts.URL+"/api/convert", `{"input":"330000 2790000"}`)

	resp, err := http.Get(ts.URL + "/api/download")
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "utm_to_lat_lon_output.csv")
	assert.Equal(t, "Easting,Northing,Latitude,Longitude\n330000,2790000,25.216612,55.312511\n", buf.String())

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/session", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/download?format=json")
	require.NoError(t, err)
	defer resp.Body.Close()
	var entries []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	assert.Empty(t, entries)
}

func TestDownloadUnknownFormat(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/download?format=xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConvertPrecision(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		want      string
	}{
		{"zero decimals", 0, "25, 55"},
		{"two decimals", 2, "25.22, 55.31"},
		{"negative falls back to default", -1, "25.216612, 55.312511"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newTestServerWithConfig(t, types.ConverterConfig{Precision: tt.precision})
			resp, out := postJSON(t, ts.URL+"/api/convert", `{"input":"330000 2790000"}`)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, out["formatted"])
		})
	}
}

func TestConvertNonFiniteIsNull(t *testing.T) {
	ts, store := newTestServer(t)
	resp, out := postJSON(t, ts.URL+"/api/convert", `{"easting":1e300,"northing":0}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out, "latitude")
	assert.Nil(t, out["latitude"])
	assert.Nil(t, out["longitude"])

	records, err := store.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
