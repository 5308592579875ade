package gallery

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galleryscraper/pkg/config"
	"galleryscraper/pkg/errors"
	"galleryscraper/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig().Gallery
	cfg.BaseURL = server.URL + "/photos"
	cfg.GroupID = "group-1"
	return NewClient(&cfg, logger.NewTestLogger()), server
}

func assertErrorType(t *testing.T, err error, want errors.ErrorType) *errors.Error {
	t.Helper()
	require.Error(t, err)
	var gErr *errors.Error
	require.ErrorAs(t, err, &gErr)
	assert.Equal(t, want, gErr.Type)
	return gErr
}

func TestNewClient(t *testing.T) {
	cfg := config.GalleryConfig{
		BaseURL:        "https://example.com/photos",
		GroupID:        "g",
		UserAgent:      "test-agent",
		RequestTimeout: 5 * time.Second,
	}
	client := NewClient(&cfg, nil)

	assert.NotNil(t, client.logger)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "test-agent", client.headers["User-Agent"])

	client.SetHeader("X-Test", "1")
	assert.Equal(t, "1", client.headers["X-Test"])
}

func TestFetchPage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/photos", r.URL.Path)
		assert.Equal(t, "group-1", r.URL.Query().Get("groupId"))
		assert.Equal(t, "7", r.URL.Query().Get("page"))
		assert.Equal(t, "galleryscraper/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"data":[
			{"fileName":"a.jpg","processedFile":{"uri":"http://img/a.jpg"}},
			{"fileName":"b.jpg","processedFile":{"uri":"http://img/b.jpg"},"extra":true}
		]}}`)
	})

	records, err := client.FetchPage(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, err := DecodeRecord(records[0])
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", first.FileName)
	assert.Equal(t, "http://img/a.jpg", first.URI)

	second, err := DecodeRecord(records[1])
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", second.FileName)
}

func TestFetchPageErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType errors.ErrorType
		wantCode int
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "oops", wantType: errors.ErrorTypeHTTPStatus, wantCode: 500},
		{name: "not found", status: http.StatusNotFound, wantType: errors.ErrorTypeHTTPStatus, wantCode: 404},
		{name: "redirect without location", status: http.StatusNotModified, wantType: errors.ErrorTypeHTTPStatus, wantCode: 304},
		{name: "malformed json", status: http.StatusOK, body: `{"data":`, wantType: errors.ErrorTypeParsing},
		{name: "html body", status: http.StatusOK, body: `<html></html>`, wantType: errors.ErrorTypeParsing},
		{name: "missing data", status: http.StatusOK, body: `{}`, wantType: errors.ErrorTypeParsing},
		{name: "null data", status: http.StatusOK, body: `{"data":null}`, wantType: errors.ErrorTypeParsing},
		{name: "missing data.data", status: http.StatusOK, body: `{"data":{}}`, wantType: errors.ErrorTypeParsing},
		{name: "null data.data", status: http.StatusOK, body: `{"data":{"data":null}}`, wantType: errors.ErrorTypeParsing},
		{name: "data.data not an array", status: http.StatusOK, body: `{"data":{"data":{"fileName":"x"}}}`, wantType: errors.ErrorTypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			records, err := client.FetchPage(context.Background(), 1)
			assert.Nil(t, records)
			gErr := assertErrorType(t, err, tt.wantType)
			assert.Equal(t, tt.wantCode, gErr.Code)
		})
	}
}

func TestFetchPageEmptyArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"data":[]}}`)
	})

	records, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchPageDoesNotDecodeRecords(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"data":[
			{"fileName":"a.jpg","processedFile":{"uri":"http://img/a.jpg"}},
			{"fileName":123},
			{"fileName":"c.jpg"}
		]}}`)
	})

	records, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 3)

	_, err = DecodeRecord(records[0])
	assert.NoError(t, err)
	_, err = DecodeRecord(records[1])
	assertErrorType(t, err, errors.ErrorTypeContract)
	_, err = DecodeRecord(records[2])
	assertErrorType(t, err, errors.ErrorTypeContract)
}

func TestFetchPageNetworkError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.FetchPage(context.Background(), 1)
	assertErrorType(t, err, errors.ErrorTypeNetwork)
}

func TestFetchPageCancelledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"data":[]}}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchPage(ctx, 1)
	assertErrorType(t, err, errors.ErrorTypeNetwork)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	t.Cleanup(func() { close(release) })
	client.httpClient.Timeout = 50 * time.Millisecond

	_, err := client.FetchPage(context.Background(), 1)
	assertErrorType(t, err, errors.ErrorTypeNetwork)
}

func TestOpenImage(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/img/a.jpg":
			w.Write([]byte{0xff, 0xd8, 0xff, 0xe0})
		default:
			http.NotFound(w, r)
		}
	})

	t.Run("success", func(t *testing.T) {
		body, err := client.OpenImage(context.Background(), server.URL+"/img/a.jpg")
		require.NoError(t, err)
		defer body.Close()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0xe0}, data)
	})

	t.Run("not found", func(t *testing.T) {
		body, err := client.OpenImage(context.Background(), server.URL+"/img/missing.jpg")
		assert.Nil(t, body)
		gErr := assertErrorType(t, err, errors.ErrorTypeHTTPStatus)
		assert.Equal(t, http.StatusNotFound, gErr.Code)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := client.OpenImage(context.Background(), "://bad")
		assertErrorType(t, err, errors.ErrorTypeUnknown)
	})
}

func TestClientLogsRequests(t *testing.T) {
	log := logger.NewTestLogger()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"data":[]}}`)
	}))
	defer server.Close()

	cfg := config.GalleryConfig{BaseURL: server.URL, GroupID: "g"}
	client := NewClient(&cfg, log)

	_, err := client.FetchPage(context.Background(), 2)
	require.NoError(t, err)

	debug := log.GetMessagesByLevel("DEBUG")
	require.Len(t, debug, 2)
	assert.Equal(t, "sending HTTP request", debug[0].Message)
	assert.Equal(t, "HTTP request completed", debug[1].Message)
	assert.Equal(t, http.StatusOK, debug[1].Field("status"))
}
