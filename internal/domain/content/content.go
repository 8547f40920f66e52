package content

// Type is the kind of fetched resource a record describes.
type Type string

// Content type constants.
const (
	Video    Type = "video"
	Channel  Type = "channel"
	Playlist Type = "playlist"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == Video || t == Channel || t == Playlist
}

// IDField returns the record field holding the resource identifier,
// or "" for an unsupported type.
func (t Type) IDField() string {
	switch t {
	case Video:
		return "video_id"
	case Channel:
		return "channel_id"
	case Playlist:
		return "playlist_id"
	default:
		return ""
	}
}
