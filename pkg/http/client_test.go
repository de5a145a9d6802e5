package http

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetSetsHostAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "www.twse.com.tw", r.Host)
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, "20210701", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`{"stat":"OK"}`))
	}))
	defer srv.Close()

	c := NewClient(WithTimeout(time.Second))
	status, body, err := c.Get(context.Background(), srv.URL+"/MI_INDEX?date=20210701", map[string]string{
		"Host":             "www.twse.com.tw",
		"X-Requested-With": "XMLHttpRequest",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `{"stat":"OK"}`, string(body))
}

func TestClientPostEncodesForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "all", r.PostForm.Get("commodity_id"))
		assert.Equal(t, "2021/07/01", r.PostForm.Get("queryStartDate"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	status, body, err := NewClient().Post(context.Background(), srv.URL, nil, map[string]string{
		"commodity_id":   "all",
		"queryStartDate": "2021/07/01",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", string(body))
}

func TestClientDecodesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "gzip")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = io.WriteString(gz, "compressed")
		_ = gz.Close()
	}))
	defer srv.Close()

	_, body, err := NewClient().Get(context.Background(), srv.URL, map[string]string{"Accept-Encoding": "gzip, deflate"})
	require.NoError(t, err)
	assert.Equal(t, "compressed", string(body))
}

func TestClientReturnsNon2xxBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	}))
	defer srv.Close()

	status, body, err := NewClient().Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "busy", string(body))
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, _, err := NewClient(WithTimeout(time.Second)).Get(context.Background(), url, nil)
	require.Error(t, err)
}
