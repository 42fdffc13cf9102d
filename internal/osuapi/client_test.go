package osuapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/linuxmatters/osuthumb/internal/score"
)

// newTestServer serves canned API responses and counts image downloads.
func newTestServer(t *testing.T, downloads *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/get_beatmaps", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("k") != "secret" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		switch r.URL.Query().Get("h") {
		case "known":
			w.Write([]byte(`[{"beatmap_id":"129891","beatmapset_id":"39804","title":"FREEDOM DiVE","artist":"xi",` +
				`"version":"FOUR DIMENSIONS","creator":"Nakagawa-Kanon","difficultyrating":"7.0" ,` +
				`"max_combo":"2385","bpm":"222.22","mods":"` + r.URL.Query().Get("mods") + `"}]`))
		case "broken":
			w.Write([]byte(`[{"beatmap_id":"x"}]`))
		case "garbage":
			w.Write([]byte(`<html>`))
		default:
			w.Write([]byte(`[]`))
		}
	})
	mux.HandleFunc("/api/get_user", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("u") == "peppy" {
			w.Write([]byte(`[{"user_id":"2","username":"peppy"}]`))
			return
		}
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/get_scores", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"count300":"900","count100":"10","count50":"0","countmiss":"1","maxcombo":"1200","enabled_mods":"0","pp":"300.1"},
			{"count300":"950","count100":"3","count50":"0","countmiss":"0","maxcombo":"2385","enabled_mods":"0","pp":"812.7"}
		]`))
	})
	mux.HandleFunc("/avatar/2", func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
		w.Write([]byte("avatar-bytes"))
	})
	mux.HandleFunc("/assets/beatmaps/39804/covers/raw.jpg", func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
		w.Write([]byte("cover-bytes"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{
		WithBaseURL(srv.URL + "/api"),
		WithAssetsURL(srv.URL + "/assets"),
		WithAvatarURL(srv.URL + "/avatar"),
		WithHTTPClient(srv.Client()),
	}, opts...)
	return New("secret", opts...)
}

func TestBeatmap(t *testing.T) {
	var downloads atomic.Int32
	c := newTestClient(newTestServer(t, &downloads))
	ctx := context.Background()

	b, err := c.Beatmap(ctx, "known", score.Hidden|score.HardRock)
	if err != nil {
		t.Fatalf("Beatmap() error = %v", err)
	}
	if b.ID != 129891 || b.SetID != 39804 {
		t.Errorf("ids = %d/%d, want 129891/39804", b.ID, b.SetID)
	}
	if b.Version != "FOUR DIMENSIONS" || b.StarRating != 7.0 || b.MaxCombo != 2385 {
		t.Errorf("unexpected beatmap %+v", b)
	}

	testCases := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{name: "empty result", hash: "missing", wantErr: ErrNotFound},
		{name: "non-numeric id", hash: "broken", wantErr: ErrRequest},
		{name: "invalid json", hash: "garbage", wantErr: ErrRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Beatmap(ctx, tc.hash, 0)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Beatmap(%q) error = %v, want %v", tc.hash, err, tc.wantErr)
			}
		})
	}
}

func TestBeatmap_BadKeyIsRedacted(t *testing.T) {
	var downloads atomic.Int32
	srv := newTestServer(t, &downloads)
	c := New("wrong", WithBaseURL(srv.URL+"/api"), WithHTTPClient(srv.Client()))

	_, err := c.Beatmap(context.Background(), "known", 0)
	if !errors.Is(err, ErrRequest) {
		t.Fatalf("error = %v, want ErrRequest", err)
	}
	if strings.Contains(err.Error(), "wrong") {
		t.Errorf("error leaks the API key: %v", err)
	}
}

func TestResolvePlayer(t *testing.T) {
	var downloads atomic.Int32
	c := newTestClient(newTestServer(t, &downloads))

	p, err := c.ResolvePlayer(context.Background(), "peppy")
	if err != nil {
		t.Fatalf("ResolvePlayer() error = %v", err)
	}
	if p.ID != 2 || string(p.Avatar) != "avatar-bytes" {
		t.Errorf("unexpected player %+v", p)
	}

	if _, err := c.ResolvePlayer(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown player error = %v, want ErrNotFound", err)
	}
}

func TestBackground(t *testing.T) {
	var downloads atomic.Int32
	srv := newTestServer(t, &downloads)
	c := newTestClient(srv, WithCacheDir(t.TempDir()))
	fallback := []byte("fallback")

	testCases := []struct {
		name         string
		setID        int
		want         string
		wantFallback bool
	}{
		{name: "cover found", setID: 39804, want: "cover-bytes"},
		{name: "cover missing", setID: 1, want: "fallback", wantFallback: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var reason error
			bg := &Background{Client: c, SetID: tc.setID, Fallback: fallback, OnFallback: func(err error) { reason = err }}

			got := bg.Load(context.Background())
			if string(got) != tc.want {
				t.Errorf("Load() = %q, want %q", got, tc.want)
			}
			if (reason != nil) != tc.wantFallback {
				t.Errorf("fallback reason = %v, want fallback %v", reason, tc.wantFallback)
			}
		})
	}
}

func TestImageCache(t *testing.T) {
	var downloads atomic.Int32
	srv := newTestServer(t, &downloads)
	dir := t.TempDir()
	c := newTestClient(srv, WithCacheDir(dir))
	bg := &Background{Client: c, SetID: 39804}

	first := bg.Load(context.Background())
	second := bg.Load(context.Background())
	if !bytes.Equal(first, second) {
		t.Fatalf("cached bytes differ: %q vs %q", first, second)
	}
	if n := downloads.Load(); n != 1 {
		t.Errorf("downloads = %d, want 1", n)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || len(entries[0].Name()) != 16 {
		t.Errorf("cache entries = %v, want one 16 character xxhash name", entries)
	}
}

func TestPerformance(t *testing.T) {
	var downloads atomic.Int32
	c := newTestClient(newTestServer(t, &downloads))

	testCases := []struct {
		name    string
		summary score.Summary
		want    float64
		wantErr error
	}{
		{
			name:    "matching score",
			summary: score.Summary{Username: "peppy", Count300: 950, Count100: 3, MaxCombo: 2385},
			want:    812.7,
		},
		{
			name:    "no match",
			summary: score.Summary{Username: "peppy", Count300: 1, MaxCombo: 1},
			wantErr: ErrNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Performance(context.Background(), &tc.summary, 129891)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Performance() error = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Performance() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFixedPerformance(t *testing.T) {
	got, err := FixedPerformance(420).Performance(context.Background(), &score.Summary{}, 0)
	if err != nil || got != 420 {
		t.Errorf("FixedPerformance = %v, %v, want 420, nil", got, err)
	}
}
