package forms

import (
	"time"

	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/schema"
	"github.com/google/uuid"
)

// Song is a row of the song library.
type Song struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Artist string    `json:"artist"`
	Key    string    `json:"key,omitempty"`
	Tempo  int       `json:"tempo,omitempty"`
	Tags   []string  `json:"tags,omitempty"`
}

// Playlist is an ordered list of songs.
type Playlist struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	SongIDs []uuid.UUID `json:"song_ids"`
}

// Event is a performance, optionally tied to the playlist that will be played.
type Event struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Venue      string     `json:"venue,omitempty"`
	StartsAt   time.Time  `json:"starts_at"`
	PlaylistID *uuid.UUID `json:"playlist_id,omitempty"`
}

// MusicalKeys lists the accepted values of Song.Key: major roots and their
// minor forms ("Am", "F#m").
var MusicalKeys = func() []string {
	roots := []string{"C", "C#", "Db", "D", "D#", "Eb", "E", "F", "F#", "Gb", "G", "G#", "Ab", "A", "A#", "Bb", "B"}
	keys := make([]string, 0, 2*len(roots))
	for _, r := range roots {
		keys = append(keys, r, r+"m")
	}
	return keys
}()

func idType() schema.Type {
	return schema.Constrained(schema.String(), schema.Refine(KeyIDInvalid, validUUID))
}

func boundedText(limit int, requiredKey, tooLongKey string) schema.Type {
	return schema.Constrained(schema.String(),
		schema.NonEmpty(requiredKey),
		schema.MaxLength(limit, tooLongKey),
	)
}

// SongSchema describes Song.
var SongSchema = schema.Object(
	schema.Req("id", idType()).WithRequiredKey(KeyIDInvalid),
	schema.Req("title", boundedText(200, KeyTitleRequired, KeyTitleTooLong)).WithRequiredKey(KeyTitleRequired),
	schema.Req("artist", boundedText(200, KeyArtistRequired, KeyArtistTooLong)).WithRequiredKey(KeyArtistRequired),
	schema.Opt("key", schema.Constrained(schema.String(), schema.OneOf(KeyKeyInvalid, MusicalKeys...))),
	schema.Opt("tempo", schema.Constrained(schema.Int(), schema.Range(20, 300, KeyTempoOutOfRange))),
	schema.Opt("tags", schema.Slice(schema.Constrained(schema.String(),
		schema.NonEmpty(KeyTagInvalid),
		schema.MaxLength(30, KeyTagInvalid),
	))),
)

// PlaylistSchema describes Playlist.
var PlaylistSchema = schema.Object(
	schema.Req("id", idType()).WithRequiredKey(KeyIDInvalid),
	schema.Req("name", boundedText(100, KeyNameRequired, KeyNameTooLong)).WithRequiredKey(KeyNameRequired),
	schema.Req("song_ids", schema.Slice(idType())),
)

// EventSchema describes Event.
var EventSchema = schema.Object(
	schema.Req("id", idType()).WithRequiredKey(KeyIDInvalid),
	schema.Req("name", boundedText(100, KeyNameRequired, KeyNameTooLong)).WithRequiredKey(KeyNameRequired),
	schema.Opt("venue", schema.Constrained(schema.String(), schema.MaxLength(200, KeyVenueTooLong))),
	schema.Req("starts_at", schema.Constrained(schema.String(),
		schema.Refine(KeyStartsAtInvalid, func(v any) error { return schema.Time().Validate(v) }),
	)).WithRequiredKey(KeyStartsAtInvalid),
	schema.Opt("playlist_id", idType()),
)

// DecodeSong validates and decodes a song row.
func DecodeSong(v any) (Song, error) {
	return decode.UnknownSync[Song](SongSchema, v)
}

// DecodePlaylist validates and decodes a playlist row.
func DecodePlaylist(v any) (Playlist, error) {
	return decode.UnknownSync[Playlist](PlaylistSchema, v)
}

// DecodeEvent validates and decodes an event row.
func DecodeEvent(v any) (Event, error) {
	return decode.UnknownSync[Event](EventSchema, v)
}
