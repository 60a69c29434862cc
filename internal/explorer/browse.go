package explorer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"

	"github.com/scratchtools/scratch-explorer/internal/scratch"
)

// maxThumbnailShots caps how many shots get a thumbnail per browse run.
const maxThumbnailShots = 5

// Report is the outcome of a browse run.
type Report struct {
	Project    string
	Group      string
	Construct  string
	ShotCount  int
	Thumbnails []string
	Success    bool
	Err        error
}

// ThumbnailCount returns how many thumbnails were written.
func (r *Report) ThumbnailCount() int {
	return len(r.Thumbnails)
}

// BrowseProject runs the full browse pipeline against projectName:
// system check, project entry, group selection (exact match on
// targetGroupName, or the last listed group when it is empty), construct
// and shot enumeration, thumbnails for the first shots, render queue
// inspection, and a handoff to the player in looping reverse playback.
//
// Remote failures on required steps abort the run; informational steps
// degrade to empty results. The returned report always reflects how far
// the run got. BrowseProject never panics: unexpected failures are logged
// with a stack trace and folded into the report.
func (e *Explorer) BrowseProject(ctx context.Context, projectName, targetGroupName string) (report *Report) {
	report = &Report{Project: projectName}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("unexpected error in browse workflow",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			report.Success = false
			report.Err = fmt.Errorf("unexpected error: %v", r)
		}
		if report.Err != nil {
			e.reportFailure(report.Err)
		}
	}()

	if _, err := e.SystemInfo(ctx); err != nil {
		report.Err = err
		return report
	}

	if _, err := e.EnterProject(ctx, projectName); err != nil {
		report.Err = err
		return report
	}

	groups := e.Groups(ctx, true)
	if len(groups) == 0 {
		e.printf("No groups found")
		report.Err = errors.New("no groups found")
		return report
	}

	target := pickGroup(groups, targetGroupName)
	if target == nil {
		e.printf("Group %q not found", targetGroupName)
		report.Err = fmt.Errorf("group %q not found", targetGroupName)
		return report
	}

	group, err := e.SelectGroup(ctx, target.UUID)
	if err != nil {
		report.Err = err
		return report
	}
	report.Group = group.Name

	construct, err := e.CurrentConstruct(ctx)
	if err != nil {
		report.Err = err
		return report
	}
	report.Construct = construct.Name

	shots := e.AllShots(ctx)
	if len(shots) == 0 {
		e.printf("No shots found in this timeline")
		report.Err = errors.New("no shots found")
		return report
	}
	report.ShotCount = len(shots)

	e.printf("Generating thumbnails...")
	for i, shot := range shots {
		if i >= maxThumbnailShots {
			break
		}
		e.printf("   Generating thumbnail for: %s...", shot.Name)
		thumbPath := filepath.Join(e.thumbDir, fmt.Sprintf("project_thumb_%d_%s.jpg", i, shortID(shot.UUID)))
		path, err := e.GenerateThumbnail(ctx, shot.UUID, 0, thumbPath)
		if err != nil {
			e.logger.Warn("thumbnail failed", "shot", shot.UUID, "error", err)
			e.printf("      thumbnail failed: %v", err)
			continue
		}
		report.Thumbnails = append(report.Thumbnails, path)
		e.printf("      Saved: %s", path)
	}

	e.RenderQueue(ctx)

	e.printf("Opening player for review...")
	if err := e.EnterPlayer(ctx, ""); err != nil {
		report.Err = err
		return report
	}
	if err := e.SetPlaybackMode(ctx, scratch.PlaymodePlayReverse, scratch.LoopLoop); err != nil {
		report.Err = err
		return report
	}

	e.printf("")
	e.printf("PROJECT EXPLORER COMPLETED")
	e.printf("   Project: %s", projectName)
	e.printf("   Group: %s", report.Group)
	e.printf("   Shots processed: %d", report.ShotCount)
	e.printf("   Thumbnails: %d generated", report.ThumbnailCount())

	report.Success = true
	return report
}

func (e *Explorer) reportFailure(err error) {
	var apiErr *scratch.APIError
	if errors.As(err, &apiErr) {
		e.printf("")
		e.printf("API error in workflow: %s", apiErr.Reason)
		e.printf("   Status code: %d", apiErr.StatusCode)
		if apiErr.Body != "" {
			e.printf("   Details: %s", apiErr.Body)
		}
		return
	}
	e.printf("")
	e.printf("Workflow failed: %v", err)
}

// pickGroup applies the selection rule: exact name match when a target
// name is given, otherwise the last group in the listing order. Returns
// nil when a named target does not exist.
func pickGroup(groups []scratch.Group, targetName string) *scratch.Group {
	if len(groups) == 0 {
		return nil
	}
	if targetName == "" {
		return &groups[len(groups)-1]
	}
	for i := range groups {
		if groups[i].Name == targetName {
			return &groups[i]
		}
	}
	return nil
}
