package export

import (
	"strings"
	"testing"
)

func TestGenerateEDL_SingleClip(t *testing.T) {
	clips := []Clip{{
		Name:      "Intro",
		MediaPath: "/media/intro.mov",
		SourceTC:  "01:00:00:00",
		Length:    48,
	}}

	edl := GenerateEDL(clips, "Spot v3", 24.0)

	if !strings.Contains(edl, "TITLE: Spot v3") {
		t.Fatalf("missing title in EDL: %q", edl)
	}
	if !strings.Contains(edl, "FCM: NON-DROP FRAME") {
		t.Fatalf("missing non-drop-frame FCM: %q", edl)
	}
	if !strings.Contains(edl, "001  AX       V     C        01:00:00:00 01:00:02:00 00:00:00:00 00:00:02:00") {
		t.Fatalf("missing event line: %q", edl)
	}
	if !strings.Contains(edl, "* FROM CLIP NAME:  Intro") {
		t.Fatalf("missing clip name comment: %q", edl)
	}
	if !strings.Contains(edl, "* MEDIA PATH:  /media/intro.mov") {
		t.Fatalf("missing media path comment: %q", edl)
	}
}

func TestGenerateEDL_RecordOffsetsAccumulate(t *testing.T) {
	clips := []Clip{
		{Name: "Shot A", MediaPath: "/a.mov", SourceTC: "00:00:00:00", Length: 24},
		{Name: "Shot B", MediaPath: "/b.mov", SourceTC: "02:00:10:12", Length: 36},
	}

	edl := GenerateEDL(clips, "Multi", 24.0)

	if !strings.Contains(edl, "001  AX       V     C        00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00") {
		t.Fatalf("first event line mismatch: %q", edl)
	}
	if !strings.Contains(edl, "002  AX       V     C        02:00:10:12 02:00:12:00 00:00:01:00 00:00:02:12") {
		t.Fatalf("second event line mismatch or bad record offset: %q", edl)
	}
}

func TestGenerateEDL_DropFrame(t *testing.T) {
	clips := []Clip{{Name: "Shot", SourceTC: "00:00:00:00", Length: 30}}
	edl := GenerateEDL(clips, "Drop", 29.97)

	if !strings.Contains(edl, "FCM: DROP FRAME") {
		t.Fatalf("expected drop frame FCM, got: %q", edl)
	}
}

func TestGenerateEDL_MalformedSourceTC(t *testing.T) {
	clips := []Clip{{Name: "Shot", SourceTC: "garbage", Length: 24}}
	edl := GenerateEDL(clips, "Bad TC", 24.0)

	if !strings.Contains(edl, "001  AX       V     C        00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00") {
		t.Fatalf("malformed source timecode should fall back to zero: %q", edl)
	}
}

func TestGenerateEDL_NoMediaPath(t *testing.T) {
	clips := []Clip{{Name: "Shot", SourceTC: "00:00:00:00", Length: 24}}
	edl := GenerateEDL(clips, "No Media", 24.0)

	if strings.Contains(edl, "* MEDIA PATH:") {
		t.Fatalf("media path comment emitted for empty path: %q", edl)
	}
}

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		name string
		tc   string
		fps  int
		want int
	}{
		{name: "zero", tc: "00:00:00:00", fps: 24, want: 0},
		{name: "frames only", tc: "00:00:00:12", fps: 24, want: 12},
		{name: "one second", tc: "00:00:01:00", fps: 24, want: 24},
		{name: "one hour", tc: "01:00:00:00", fps: 24, want: 86400},
		{name: "malformed", tc: "bogus", fps: 24, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseTimecode(tt.tc, tt.fps); got != tt.want {
				t.Errorf("parseTimecode(%q) = %d, want %d", tt.tc, got, tt.want)
			}
		})
	}
}

func TestFramesToTimecode(t *testing.T) {
	tests := []struct {
		name   string
		frames int
		fps    int
		want   string
	}{
		{name: "zero", frames: 0, fps: 24, want: "00:00:00:00"},
		{name: "sub second", frames: 12, fps: 24, want: "00:00:00:12"},
		{name: "one minute", frames: 1440, fps: 24, want: "00:01:00:00"},
		{name: "negative clamps", frames: -5, fps: 24, want: "00:00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := framesToTimecode(tt.frames, tt.fps); got != tt.want {
				t.Errorf("framesToTimecode(%d) = %q, want %q", tt.frames, got, tt.want)
			}
		})
	}
}
