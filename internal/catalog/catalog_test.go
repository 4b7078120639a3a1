package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"sketchforge/internal/sketch"
)

func TestFetchDecodesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[
			{"title":"Pong","description":"A *classic*","sourceUrl":"https://example.invalid/pong.git"},
			{"title":"Local Demo","localPath":"/sketches/demo.ino"},
			{"title":"Broken"}
		]}`))
	}))
	defer srv.Close()

	items, err := NewClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	src, err := items[0].Source()
	require.NoError(t, err)
	require.Equal(t, sketch.RemoteGit{URL: "https://example.invalid/pong.git"}, src)

	src, err = items[1].Source()
	require.NoError(t, err)
	require.Equal(t, sketch.LocalFile{Path: "/sketches/demo.ino"}, src)

	_, err = items[2].Source()
	require.Error(t, err)
}

func TestFetchRejectsMissingItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"sketches":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "items")
}

func TestFetchRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background())
	require.Error(t, err)
}

func TestFilterFoldsCase(t *testing.T) {
	items := []Item{
		{Title: "Space Invaders", Description: "shooter"},
		{Title: "pong", Description: "The CLASSIC paddle game"},
		{Title: "Müller's Maze"},
	}

	require.Len(t, Filter(items, ""), 3)
	require.Equal(t, "pong", Filter(items, "PONG")[0].Title)
	require.Equal(t, "pong", Filter(items, "classic")[0].Title)
	require.Equal(t, "Müller's Maze", Filter(items, "MÜLLER")[0].Title)
	require.Empty(t, Filter(items, "tetris"))
}

func TestPlainDescription(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"A *classic* paddle game", "A classic paddle game"},
		{"See [the repo](https://example.invalid) for `details`", "See the repo for details"},
		{"# Heading\n\ntwo  lines\nof text", "Heading two lines of text"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, PlainDescription(tc.in), "input %q", tc.in)
	}
}
