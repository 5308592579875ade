// Package testutil provides an in-process gallery server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// GroupID is the only group the server answers for
const GroupID = "test-group"

// Photo is one listing entry served by GalleryServer
type Photo struct {
	FileName string
	Content  []byte
}

// NewPhoto returns a photo with content derived from its name
func NewPhoto(fileName string) Photo {
	return Photo{FileName: fileName, Content: []byte("jpeg:" + fileName)}
}

// Photos returns n photos named prefix-001.jpg, prefix-002.jpg, ...
func Photos(prefix string, n int) []Photo {
	photos := make([]Photo, n)
	for i := range photos {
		photos[i] = NewPhoto(fmt.Sprintf("%s-%03d.jpg", prefix, i+1))
	}
	return photos
}

type listingRecord struct {
	FileName      string `json:"fileName"`
	ProcessedFile struct {
		URI string `json:"uri"`
	} `json:"processedFile"`
}

type image struct {
	fileName string
	content  []byte
}

// GalleryServer simulates the listing endpoint at /photos and the image host
// at /img/. Pages that were never configured return an empty photo array.
type GalleryServer struct {
	server *httptest.Server

	mu          sync.RWMutex
	pages       map[int][]listingRecord
	rawPages    map[int]string
	pageErrors  map[int]int
	images      map[string]image
	imageErrors map[string]int
	delays      map[string]time.Duration
	imageHits   map[string]int

	pageRequests  atomic.Int32
	imageRequests atomic.Int32
}

// NewGalleryServer starts a server; call Close when done
func NewGalleryServer() *GalleryServer {
	g := &GalleryServer{
		pages:       make(map[int][]listingRecord),
		rawPages:    make(map[int]string),
		pageErrors:  make(map[int]int),
		images:      make(map[string]image),
		imageErrors: make(map[string]int),
		delays:      make(map[string]time.Duration),
		imageHits:   make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/photos", g.handleListing)
	mux.HandleFunc("/img/", g.handleImage)

	g.server = httptest.NewServer(mux)
	return g
}

// handleListing serves {"data":{"data":[...]}} for the requested page
func (g *GalleryServer) handleListing(w http.ResponseWriter, r *http.Request) {
	g.pageRequests.Add(1)

	if r.URL.Query().Get("groupId") != GroupID {
		http.Error(w, "unknown group", http.StatusBadRequest)
		return
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		http.Error(w, "bad page", http.StatusBadRequest)
		return
	}

	if delay := g.getDelay(fmt.Sprintf("page:%d", page)); delay > 0 {
		time.Sleep(delay)
	}

	g.mu.RLock()
	code := g.pageErrors[page]
	raw, hasRaw := g.rawPages[page]
	records := g.pages[page]
	g.mu.RUnlock()

	if code > 0 {
		http.Error(w, fmt.Sprintf("Error %d", code), code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if hasRaw {
		w.Write([]byte(raw))
		return
	}
	if records == nil {
		records = []listingRecord{}
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{
			"data":       records,
			"pagination": map[string]int{"page": page},
		},
	})
}

// handleImage serves the bytes registered for the image key
func (g *GalleryServer) handleImage(w http.ResponseWriter, r *http.Request) {
	g.imageRequests.Add(1)
	key := strings.TrimPrefix(r.URL.Path, "/img/")

	g.mu.Lock()
	img, ok := g.images[key]
	if ok {
		g.imageHits[img.fileName]++
	}
	code := g.imageErrors[img.fileName]
	g.mu.Unlock()

	if delay := g.getDelay("image:" + img.fileName); delay > 0 {
		time.Sleep(delay)
	}

	if !ok {
		http.NotFound(w, r)
		return
	}
	if code > 0 {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(img.content)))
	w.Write(img.content)
}

// AddPage appends photos to the listing of page
func (g *GalleryServer) AddPage(page int, photos ...Photo) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, p := range photos {
		key := fmt.Sprintf("p%d-%d-%s", page, len(g.pages[page]), p.FileName)
		g.images[key] = image{fileName: p.FileName, content: p.Content}

		var rec listingRecord
		rec.FileName = p.FileName
		rec.ProcessedFile.URI = g.server.URL + "/img/" + key
		g.pages[page] = append(g.pages[page], rec)
	}
}

// SetRawPage makes page answer body verbatim with status 200
func (g *GalleryServer) SetRawPage(page int, body string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rawPages[page] = body
}

// SetPageError makes page answer with the given status code
func (g *GalleryServer) SetPageError(page, code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pageErrors[page] = code
}

// SetImageError makes every image named fileName answer with code
func (g *GalleryServer) SetImageError(fileName string, code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.imageErrors[fileName] = code
}

// SetPageDelay delays the listing response of page
func (g *GalleryServer) SetPageDelay(page int, delay time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.delays[fmt.Sprintf("page:%d", page)] = delay
}

// SetImageDelay delays every image named fileName
func (g *GalleryServer) SetImageDelay(fileName string, delay time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.delays["image:"+fileName] = delay
}

func (g *GalleryServer) getDelay(key string) time.Duration {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.delays[key]
}

// ImageURL returns the URL served for the n-th (0-based) photo of page
func (g *GalleryServer) ImageURL(page, n int) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pages[page][n].ProcessedFile.URI
}

// ContentsFor returns every content registered under fileName
func (g *GalleryServer) ContentsFor(fileName string) [][]byte {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var contents [][]byte
	for _, img := range g.images {
		if img.fileName == fileName {
			contents = append(contents, img.content)
		}
	}
	return contents
}

// ListingURL returns the base listing URL, without query parameters
func (g *GalleryServer) ListingURL() string {
	return g.server.URL + "/photos"
}

// URL returns the server root URL
func (g *GalleryServer) URL() string {
	return g.server.URL
}

// PageRequests returns the number of listing requests served
func (g *GalleryServer) PageRequests() int {
	return int(g.pageRequests.Load())
}

// ImageRequests returns the number of image requests served
func (g *GalleryServer) ImageRequests() int {
	return int(g.imageRequests.Load())
}

// ImageRequestsFor returns the number of image requests for fileName
func (g *GalleryServer) ImageRequestsFor(fileName string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.imageHits[fileName]
}

// ResetCounters clears all request counters
func (g *GalleryServer) ResetCounters() {
	g.pageRequests.Store(0)
	g.imageRequests.Store(0)
	g.mu.Lock()
	g.imageHits = make(map[string]int)
	g.mu.Unlock()
}

// Close shuts down the server
func (g *GalleryServer) Close() {
	g.server.Close()
}
