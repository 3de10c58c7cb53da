package forms_test

import (
	"testing"
	"time"

	"github.com/aretw0/setlist/pkg/forms"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	songID     = "1a2b3c4d-5e6f-4a1b-8c2d-3e4f5a6b7c8d"
	playlistID = "9f8e7d6c-5b4a-4c3d-9e2f-1a0b9c8d7e6f"
)

func TestDecodeSong(t *testing.T) {
	got, err := forms.DecodeSong(map[string]any{
		"id":     songID,
		"title":  "Feeling Good",
		"artist": "Nina Simone",
		"key":    "Gm",
		"tempo":  float64(72),
		"tags":   []any{"soul", "standard"},
	})
	require.NoError(t, err)

	want := forms.Song{
		ID:     uuid.MustParse(songID),
		Title:  "Feeling Good",
		Artist: "Nina Simone",
		Key:    "Gm",
		Tempo:  72,
		Tags:   []string{"soul", "standard"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeSong() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSong_Violations(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{"id": songID, "title": "Feeling Good", "artist": "Nina Simone"}
	}

	tests := []struct {
		desc    string
		field   string
		value   any
		wantKey string
	}{
		{"id", "id", "song-1", forms.KeyIDInvalid},
		{"title empty", "title", "", forms.KeyTitleRequired},
		{"artist missing", "artist", nil, forms.KeyArtistRequired},
		{"key", "key", "H", forms.KeyKeyInvalid},
		{"tempo low", "tempo", 10, forms.KeyTempoOutOfRange},
		{"tempo fractional", "tempo", 72.5, "invalidType"},
		{"tag empty", "tags", []any{"soul", ""}, forms.KeyTagInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			in := base()
			in[tt.field] = tt.value
			_, err := forms.DecodeSong(in)
			assert.Equal(t, tt.wantKey, firstKey(t, err))
		})
	}
}

func TestDecodePlaylist(t *testing.T) {
	got, err := forms.DecodePlaylist(map[string]any{
		"id":       playlistID,
		"name":     "Friday set",
		"song_ids": []any{songID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{uuid.MustParse(songID)}, got.SongIDs)

	_, err = forms.DecodePlaylist(map[string]any{
		"id":       playlistID,
		"name":     "Friday set",
		"song_ids": []any{songID, "nope"},
	})
	assert.Equal(t, forms.KeyIDInvalid, firstKey(t, err))
}

func TestDecodeEvent(t *testing.T) {
	got, err := forms.DecodeEvent(map[string]any{
		"id":          songID,
		"name":        "Jazz night",
		"venue":       "Blue Note",
		"starts_at":   "2026-11-20T21:30:00Z",
		"playlist_id": playlistID,
	})
	require.NoError(t, err)
	assert.True(t, got.StartsAt.Equal(time.Date(2026, 11, 20, 21, 30, 0, 0, time.UTC)))
	require.NotNil(t, got.PlaylistID)
	assert.Equal(t, uuid.MustParse(playlistID), *got.PlaylistID)

	_, err = forms.DecodeEvent(map[string]any{
		"id":        songID,
		"name":      "Jazz night",
		"starts_at": "next friday",
	})
	assert.Equal(t, forms.KeyStartsAtInvalid, firstKey(t, err))
}

func TestMusicalKeys(t *testing.T) {
	assert.Contains(t, forms.MusicalKeys, "C")
	assert.Contains(t, forms.MusicalKeys, "F#m")
	assert.NotContains(t, forms.MusicalKeys, "H")
}

func TestDecodeSong_IgnoresCaseVariantKeys(t *testing.T) {
	got, err := forms.DecodeSong(map[string]any{
		"id":     songID,
		"title":  "Feeling Good",
		"artist": "Nina Simone",
		"TEMPO":  float64(5000),
		"KEY":    "Zzz",
		"Tags":   []any{""},
	})
	require.NoError(t, err)

	assert.Zero(t, got.Tempo)
	assert.Empty(t, got.Key)
	assert.Nil(t, got.Tags)
}
