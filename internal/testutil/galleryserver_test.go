package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestGalleryServerListing(t *testing.T) {
	h := NewTestHelper(t)
	h.Server.AddPage(1, Photos("race", 2)...)

	status, body := getJSON(t, h.Server.ListingURL()+"?groupId="+GroupID+"&page=1")
	require.Equal(t, http.StatusOK, status)

	records := body["data"].(map[string]interface{})["data"].([]interface{})
	require.Len(t, records, 2)
	first := records[0].(map[string]interface{})
	assert.Equal(t, "race-001.jpg", first["fileName"])
	assert.Equal(t, h.Server.ImageURL(1, 0), first["processedFile"].(map[string]interface{})["uri"])

	status, body = getJSON(t, h.Server.ListingURL()+"?groupId="+GroupID+"&page=9")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["data"].(map[string]interface{})["data"])

	status, _ = getJSON(t, h.Server.ListingURL()+"?groupId=other&page=1")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, 3, h.Server.PageRequests())
}

func TestGalleryServerErrors(t *testing.T) {
	h := NewTestHelper(t)
	h.Server.AddPage(1, NewPhoto("a.jpg"))
	h.Server.SetPageError(2, http.StatusServiceUnavailable)
	h.Server.SetImageError("a.jpg", http.StatusForbidden)

	status, _ := getJSON(t, h.Server.ListingURL()+"?groupId="+GroupID+"&page=2")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	resp, err := http.Get(h.Server.ImageURL(1, 0))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 1, h.Server.ImageRequestsFor("a.jpg"))

	resp, err = http.Get(h.Server.URL() + "/img/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGalleryServerImages(t *testing.T) {
	h := NewTestHelper(t)
	h.Server.AddPage(1, Photo{FileName: "dup.jpg", Content: []byte("one")}, Photo{FileName: "dup.jpg", Content: []byte("two")})

	assert.NotEqual(t, h.Server.ImageURL(1, 0), h.Server.ImageURL(1, 1))
	assert.ElementsMatch(t, [][]byte{[]byte("one"), []byte("two")}, h.Server.ContentsFor("dup.jpg"))

	resp, err := http.Get(h.Server.ImageURL(1, 1))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "two", string(data))

	h.Server.ResetCounters()
	assert.Equal(t, 0, h.Server.ImageRequests())
}

func TestRawPage(t *testing.T) {
	h := NewTestHelper(t)
	h.Server.SetRawPage(1, `{"data":`)

	resp, err := http.Get(h.Server.ListingURL() + "?groupId=" + GroupID + "&page=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, `{"data":`, string(data))
}
