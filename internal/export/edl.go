// Package export renders a construct's flattened shot list as a CMX 3600
// EDL for conform and review tools.
package export

import (
	"fmt"
	"math"
	"strings"
)

// GenerateEDL renders clips as a CMX 3600 edit decision list. Source in/out
// come from each clip's source timecode and frame length; record timecodes
// run sequentially from zero in clip order.
func GenerateEDL(clips []Clip, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 24
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", SanitizeName(title, 70))}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	recordOffset := 0
	for i, clip := range clips {
		srcStart := parseTimecode(clip.SourceTC, fps)
		srcIn := framesToTimecode(srcStart, fps)
		srcOut := framesToTimecode(srcStart+clip.Length, fps)
		recIn := framesToTimecode(recordOffset, fps)
		recOut := framesToTimecode(recordOffset+clip.Length, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", SanitizeName(clip.Name, 70)),
		)
		if clip.MediaPath != "" {
			lines = append(lines, fmt.Sprintf("* MEDIA PATH:  %s", clip.MediaPath))
		}

		recordOffset += clip.Length
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// parseTimecode converts "HH:MM:SS:FF" to a frame count at fps. Malformed
// timecodes parse as zero rather than failing the whole export.
func parseTimecode(tc string, fps int) int {
	var h, m, s, f int
	if _, err := fmt.Sscanf(tc, "%d:%d:%d:%d", &h, &m, &s, &f); err != nil {
		return 0
	}
	return ((h*60+m)*60+s)*fps + f
}

func framesToTimecode(totalFrames, fps int) string {
	if totalFrames < 0 {
		totalFrames = 0
	}
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
