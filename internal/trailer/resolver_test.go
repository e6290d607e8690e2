package trailer

import (
	"context"
	"errors"
	"testing"

	"github.com/marco/moviedb/internal/catalog"
)

type fakeVideos struct {
	videos []catalog.Video
	err    error
	ids    []int
}

func (f *fakeVideos) MovieVideos(ctx context.Context, movieID int) ([]catalog.Video, error) {
	f.ids = append(f.ids, movieID)
	return f.videos, f.err
}

func TestSelectFirstYouTubeTrailer(t *testing.T) {
	videos := []catalog.Video{
		{Type: "Teaser", Site: "YouTube", Key: "a"},
		{Type: "Trailer", Site: "Vimeo", Key: "b"},
		{Type: "Trailer", Site: "YouTube", Key: "c"},
		{Type: "Trailer", Site: "YouTube", Key: "d"},
	}

	video, ok := Select(videos)
	if !ok {
		t.Fatal("expected a trailer to be selected")
	}
	if video.Key != "c" {
		t.Errorf("expected key c, got %q", video.Key)
	}
}

func TestSelectNoMatch(t *testing.T) {
	testCases := []struct {
		name   string
		videos []catalog.Video
	}{
		{"nil", nil},
		{"empty", []catalog.Video{}},
		{"no trailers", []catalog.Video{{Type: "Teaser", Site: "YouTube", Key: "a"}, {Type: "Clip", Site: "YouTube", Key: "b"}}},
		{"wrong site", []catalog.Video{{Type: "Trailer", Site: "Vimeo", Key: "a"}}},
		{"case sensitive", []catalog.Video{{Type: "trailer", Site: "youtube", Key: "a"}}},
	}

	for _, tc := range testCases {
		if _, ok := Select(tc.videos); ok {
			t.Errorf("%s: expected no selection", tc.name)
		}
	}
}

func TestResolveFound(t *testing.T) {
	fake := &fakeVideos{videos: []catalog.Video{{Type: "Trailer", Site: "YouTube", Key: "xyz"}}}
	r := NewResolver(fake, nil)

	sel, err := r.Resolve(context.Background(), 42)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !sel.Found || sel.URL != "https://www.youtube.com/watch?v=xyz" {
		t.Errorf("unexpected selection: %#v", sel)
	}
	if len(fake.ids) != 1 || fake.ids[0] != 42 {
		t.Errorf("expected lookup for movie 42, got %v", fake.ids)
	}
}

func TestResolveNotFoundIsNotError(t *testing.T) {
	r := NewResolver(&fakeVideos{}, nil)

	sel, err := r.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sel.Found || sel.URL != "" {
		t.Errorf("expected NotFound, got %#v", sel)
	}
}

func TestResolvePropagatesCatalogError(t *testing.T) {
	boom := errors.New("boom")
	r := NewResolver(&fakeVideos{err: boom}, nil)

	sel, err := r.Resolve(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Errorf("expected catalog error, got %v", err)
	}
	if sel.Found {
		t.Error("expected no selection on error")
	}
}
