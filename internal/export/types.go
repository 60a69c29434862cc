package export

// Clip is one event of an exported shot list. Length is a frame count and
// SourceTC the clip's source start timecode; an empty or malformed SourceTC
// is treated as 00:00:00:00.
type Clip struct {
	Name      string
	MediaPath string
	SourceTC  string
	Length    int
}
