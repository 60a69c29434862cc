package scratch

// Wire models for the SCRATCH APIV2 endpoints this tool drives.
// Field names match the JSON the server emits.

type SystemProperties struct {
	SystemName string `json:"system_name"`
	Version    string `json:"version"`
	Build      string `json:"build,omitempty"`
}

type Project struct {
	Name     string `json:"name"`
	Modified string `json:"modified,omitempty"`
}

type ProjectList struct {
	Projects []Project `json:"projects"`
}

type Group struct {
	UUID       string      `json:"uuid"`
	Name       string      `json:"name"`
	Active     bool        `json:"active"`
	Constructs []Construct `json:"constructs,omitempty"`
}

type GroupList struct {
	Groups []Group `json:"groups"`
}

type Resolution struct {
	W int `json:"w"`
	H int `json:"h"`
}

type Construct struct {
	UUID       string     `json:"uuid"`
	Name       string     `json:"name"`
	Resolution Resolution `json:"resolution"`
	FPS        float64    `json:"fps"`
	Slots      []Slot     `json:"slots,omitempty"`
}

type Slot struct {
	Shots []Shot `json:"shots"`
}

type Shot struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	File     string `json:"file,omitempty"`
	Length   int    `json:"length"`
	Timecode string `json:"timecode,omitempty"`
}

// Render queue item statuses as the server reports them. The server is not
// consistent about case ("Idle" vs "waiting"), so compare case-insensitively.
const (
	QueueStatusIdle       = "idle"
	QueueStatusWaiting    = "waiting"
	QueueStatusProcessing = "processing"
	QueueStatusFinished   = "finished"
	QueueStatusError      = "error"
)

type RenderQueueItem struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	FramesDone  int    `json:"frames_done"`
	FramesTotal int    `json:"frames_total"`
}

// ImageSnapshot is the request body for POST /application/render/snapshot.
// When File is empty the server returns the encoded image in the response
// body instead of writing it server-side.
type ImageSnapshot struct {
	UUID  string `json:"uuid"`
	Frame int    `json:"frame"`
	Proxy bool   `json:"proxy"`
	File  string `json:"file,omitempty"`
}

// Playback mode and loop constants accepted by the player playmode endpoint.
const (
	PlaymodePause       = "PAUSE"
	PlaymodePlayForward = "PLAY_FRW"
	PlaymodePlayReverse = "PLAY_REV"

	LoopOff  = "OFF"
	LoopLoop = "LOOP"
)

// PlaymodeData is the request body for PUT /application/player/playmode.
type PlaymodeData struct {
	Mode  string  `json:"mode"`
	Loop  string  `json:"loop"`
	Audio string  `json:"audio"`
	Speed float64 `json:"speed"`
	Range bool    `json:"range"`
}

type enterProjectRequest struct {
	Name string `json:"name"`
}

type deleteMediaData struct {
	DeleteExistingMedia bool `json:"delete_existing_media"`
}
