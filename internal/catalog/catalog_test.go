package catalog

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkudrin/taratdl/internal/config"
	"github.com/dkudrin/taratdl/internal/http"
	"github.com/dkudrin/taratdl/internal/model"
)

const artistPageHTML = `<html><body>
<div class="page-title"><h1> Иван Иванов </h1></div>
<img class="img-fluid" src="/images/ivan.jpg">
<ul>
<li class="song"><i class="play" data-file="/files/one.mp3" data-song-title="Первая"></i></li>
<li class="song"><i class="play" data-file="/files/two.mp3" data-song-title="Вторая"></i></li>
<li class="song"><i class="play" data-file="" data-song-title="Broken"></i></li>
</ul>
</body></html>`

func listingPage(links []string, next bool) string {
	page := "<html><body>"
	for _, link := range links {
		page += fmt.Sprintf(`<h4 class="property-item-title"><a href="%s">x</a></h4>`, link)
	}
	if next {
		page += `<ul class="pagination"><a rel="next" href="#">»</a></ul>`
	}
	return page + "</body></html>"
}

func discoverySettings(baseURL string) *config.Settings {
	settings := config.DefaultSettings()
	settings.BaseURL = baseURL
	settings.PageDelayMin = 0
	settings.PageDelayMax = 0
	settings.ArtistDelayMin = 0
	settings.ArtistDelayMax = 0
	return settings
}

// stubFetcher serves canned page bodies keyed by URL.
type stubFetcher map[string]string

func (s stubFetcher) GetString(_ context.Context, url string, _ time.Duration) (string, error) {
	body, ok := s[url]
	if !ok {
		return "", &http.StatusError{Code: 404, URL: url}
	}
	return body, nil
}

func TestListArtistURLs_Pagination(t *testing.T) {
	var mu sync.Mutex
	agents := make(map[string]struct{})

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		mu.Lock()
		agents[r.UserAgent()] = struct{}{}
		mu.Unlock()

		switch r.URL.Query().Get("page") {
		case "", "1":
			fmt.Fprint(w, listingPage([]string{"/music/b-artist", "/music/a-artist", "/music"}, true))
		case "2":
			fmt.Fprint(w, listingPage([]string{"/music/c-artist", "/music/a-artist"}, false))
		default:
			nethttp.NotFound(w, r)
		}
	}))
	defer server.Close()

	d, err := NewDiscoverer(discoverySettings(server.URL), nil, nil)
	require.NoError(t, err)

	urls, err := d.ListArtistURLs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		server.URL + "/music/a-artist",
		server.URL + "/music/b-artist",
		server.URL + "/music/c-artist",
	}, urls)

	for agent := range agents {
		assert.True(t, http.IsKnownUserAgent(agent), "unexpected User-Agent %q", agent)
	}
}

func TestListArtistURLs_StopsWithoutNextLink(t *testing.T) {
	var pages int
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		pages++
		fmt.Fprint(w, listingPage([]string{"/music/solo"}, false))
	}))
	defer server.Close()

	d, err := NewDiscoverer(discoverySettings(server.URL), nil, nil)
	require.NoError(t, err)

	urls, err := d.ListArtistURLs(context.Background())
	require.NoError(t, err)
	assert.Len(t, urls, 1)
	assert.Equal(t, 1, pages)
}

func TestListArtistURLs_EmptyListing(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, listingPage(nil, false))
	}))
	defer server.Close()

	d, err := NewDiscoverer(discoverySettings(server.URL), nil, nil)
	require.NoError(t, err)

	_, err = d.ListArtistURLs(context.Background())
	assert.ErrorIs(t, err, ErrNoArtists)
}

func TestListArtistURLs_FirstPageUnreachable(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "down", nethttp.StatusInternalServerError)
	}))
	defer server.Close()

	d, err := NewDiscoverer(discoverySettings(server.URL), nil, nil)
	require.NoError(t, err)

	_, err = d.ListArtistURLs(context.Background())
	assert.Error(t, err)
}

func TestArtist_ParsesPage(t *testing.T) {
	settings := discoverySettings("https://tarat.ru")
	fetcher := stubFetcher{"https://tarat.ru/music/ivan": artistPageHTML}

	d, err := NewDiscoverer(settings, fetcher, nil)
	require.NoError(t, err)

	tracks, err := d.Artist(context.Background(), "https://tarat.ru/music/ivan")
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	assert.Equal(t, model.TrackRecord{
		Artist:   "Иван Иванов",
		Title:    "Первая",
		AudioURL: "https://tarat.ru/files/one.mp3",
		CoverURL: "https://tarat.ru/images/ivan.jpg",
	}, tracks[0])
	assert.Equal(t, "Вторая", tracks[1].Title)
}

func TestArtist_MissingNameAndCover(t *testing.T) {
	html := `<html><body>
<li class="song"><i class="play" data-file="/files/x.mp3" data-song-title="X"></i></li>
</body></html>`
	settings := discoverySettings("https://tarat.ru")
	fetcher := stubFetcher{"https://tarat.ru/music/mystery": html}

	d, err := NewDiscoverer(settings, fetcher, nil)
	require.NoError(t, err)

	tracks, err := d.Artist(context.Background(), "https://tarat.ru/music/mystery")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Unknown", tracks[0].Artist)
	assert.False(t, tracks[0].HasCover())
}

func TestArtist_NoTracks(t *testing.T) {
	settings := discoverySettings("https://tarat.ru")
	fetcher := stubFetcher{"https://tarat.ru/music/quiet": "<html><body></body></html>"}

	d, err := NewDiscoverer(settings, fetcher, nil)
	require.NoError(t, err)

	tracks, err := d.Artist(context.Background(), "https://tarat.ru/music/quiet")
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestDiscoverAll(t *testing.T) {
	mux := nethttp.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/music", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, listingPage([]string{"/music/ivan", "/music/quiet"}, false))
	})
	mux.HandleFunc("/music/ivan", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, artistPageHTML)
	})
	mux.HandleFunc("/music/quiet", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, "<html><body></body></html>")
	})

	settings := discoverySettings(server.URL)
	client := http.NewClient(settings.BaseURL, settings.MaxConnsPerHost, settings.MaxTotalConns)

	d, err := NewDiscoverer(settings, client, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var progress []int
	d.OnArtist = func(done, total int) {
		mu.Lock()
		progress = append(progress, done)
		mu.Unlock()
		assert.Equal(t, 2, total)
	}

	tracks, err := d.DiscoverAll(context.Background())
	require.NoError(t, err)

	require.Len(t, tracks, 2)
	for _, track := range tracks {
		assert.Equal(t, "Иван Иванов", track.Artist)
		assert.Contains(t, track.AudioURL, server.URL)
	}
	assert.ElementsMatch(t, []int{1, 2}, progress)
}

func TestCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.json")
	tracks := []model.TrackRecord{
		{Artist: "Alpha", Title: "One", AudioURL: "https://tarat.ru/a.mp3", CoverURL: "https://tarat.ru/a.jpg"},
		{Artist: "Beta", Title: "Two", AudioURL: "https://tarat.ru/b.mp3"},
	}

	require.NoError(t, SaveCache(path, tracks))

	loaded, err := LoadCache(path)
	require.NoError(t, err)
	assert.Equal(t, tracks, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		["Alpha","One","https://tarat.ru/a.mp3","https://tarat.ru/a.jpg"],
		["Beta","Two","https://tarat.ru/b.mp3",null]
	]`, string(data))
}

func TestLoadCache_MissingFile(t *testing.T) {
	tracks, err := LoadCache(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Nil(t, tracks)
}

func TestLoadCache_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadCache(path)
	assert.Error(t, err)
}
