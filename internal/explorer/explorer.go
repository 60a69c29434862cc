// Package explorer drives a SCRATCH session end-to-end: it sequences the
// dependent remote calls for browsing a project (enter project, pick a group,
// walk the active construct, snapshot shots, inspect the render queue, hand
// off to the player) and prints a human-readable transcript along the way.
package explorer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scratchtools/scratch-explorer/internal/scratch"
)

// ShotRef is a flattened reference to a shot inside the current construct.
// SlotIndex and VersionIndex locate it and are only meaningful against the
// construct version they were read from.
type ShotRef struct {
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	SlotIndex    int    `json:"slot_idx"`
	VersionIndex int    `json:"version_idx"`
	File         string `json:"file,omitempty"`
	Length       int    `json:"length"`
	Timecode     string `json:"timecode,omitempty"`
}

// Explorer holds the session client and runs the workflow operations.
// It is strictly sequential; one Explorer drives one remote session.
type Explorer struct {
	client   scratch.Client
	logger   *slog.Logger
	out      io.Writer
	thumbDir string

	currentGroup     *scratch.Group
	currentConstruct *scratch.Construct
}

type Option func(*Explorer)

// WithOutput redirects the transcript (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(e *Explorer) { e.out = w }
}

// WithThumbnailDir overrides where thumbnails are written (default the OS
// temp dir).
func WithThumbnailDir(dir string) Option {
	return func(e *Explorer) { e.thumbDir = dir }
}

func New(client scratch.Client, logger *slog.Logger, opts ...Option) *Explorer {
	e := &Explorer{
		client:   client,
		logger:   logger,
		out:      os.Stdout,
		thumbDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Explorer) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format+"\n", args...)
}

// SystemInfo fetches the server's system properties. Failures propagate:
// if the server is unreachable nothing else can work.
func (e *Explorer) SystemInfo(ctx context.Context) (*scratch.SystemProperties, error) {
	e.printf("Retrieving system info...")
	props, err := e.client.GetSystemProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("get system properties: %w", err)
	}
	e.printf("   System name: %s", props.SystemName)
	e.printf("   Software version: %s (build %s)", props.Version, props.Build)
	return props, nil
}

// ListProjects lists the projects available on the server. Informational:
// on error it logs and returns an empty list.
func (e *Explorer) ListProjects(ctx context.Context) []scratch.Project {
	e.printf("Retrieving projects...")
	projects, err := e.client.GetProjects(ctx)
	if err != nil {
		e.logger.Warn("failed to list projects", "error", err)
		e.printf("   error retrieving projects: %v", err)
		return nil
	}
	for _, proj := range projects {
		e.printf("   - %s (last modified: %s)", proj.Name, proj.Modified)
	}
	return projects
}

// EnterProject opens the named project, first leaving any project the
// session is already in. The exit is best-effort: being outside a project
// is not a failure, so exit errors are only logged at debug level.
func (e *Explorer) EnterProject(ctx context.Context, name string) (*scratch.Project, error) {
	if err := e.client.ExitProject(ctx); err != nil {
		// Expected when the session is not inside a project.
		e.logger.Debug("project exit before enter failed", "error", err)
	}

	e.printf("Opening project %q...", name)
	if err := e.client.EnterProject(ctx, name); err != nil {
		return nil, fmt.Errorf("enter project %q: %w", name, err)
	}

	current, err := e.client.GetCurrentProject(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current project: %w", err)
	}
	e.printf("   Current project: %s", current.Name)
	return current, nil
}

// Groups lists the groups of the current project. Informational: on error
// it logs and returns an empty list. With detailed set the server also
// reports each group's constructs.
func (e *Explorer) Groups(ctx context.Context, detailed bool) []scratch.Group {
	e.printf("Retrieving groups...")
	level := scratch.LevelBasic
	if detailed {
		level = scratch.LevelAll
	}
	groups, err := e.client.GetGroups(ctx, level)
	if err != nil {
		e.logger.Warn("failed to list groups", "error", err)
		e.printf("   error retrieving groups: %v", err)
		return nil
	}

	e.printf("   %d group(s) found:", len(groups))
	for _, group := range groups {
		status := ""
		if group.Active {
			status = " (active)"
		}
		e.printf("   - %s%s", group.Name, status)
		if detailed && len(group.Constructs) > 0 {
			e.printf("     %d timeline(s)", len(group.Constructs))
		}
	}
	return groups
}

// SelectGroup activates a group by id. This is a required step, so
// failures propagate.
func (e *Explorer) SelectGroup(ctx context.Context, groupID string) (*scratch.Group, error) {
	e.printf("Selecting group...")
	group, err := e.client.SelectGroup(ctx, groupID, scratch.LevelAll)
	if err != nil {
		return nil, fmt.Errorf("select group %s: %w", groupID, err)
	}
	e.currentGroup = group
	e.printf("   Group %q is now active", group.Name)
	return group, nil
}

// CurrentConstruct fetches the active construct with full detail.
// Failures propagate.
func (e *Explorer) CurrentConstruct(ctx context.Context) (*scratch.Construct, error) {
	e.printf("Retrieving active timeline...")
	construct, err := e.client.GetCurrentConstruct(ctx, scratch.LevelAll)
	if err != nil {
		return nil, fmt.Errorf("get current construct: %w", err)
	}
	e.currentConstruct = construct

	e.printf("   Timeline: %s", construct.Name)
	if construct.Resolution.W > 0 || construct.Resolution.H > 0 {
		e.printf("   Resolution: %dx%d", construct.Resolution.W, construct.Resolution.H)
	}
	e.printf("   FPS: %g", construct.FPS)
	return construct, nil
}

// AllShots refetches the current construct and flattens its slots into an
// ordered shot list tagged with (slot index, version index). Informational:
// on error it logs and returns an empty list.
func (e *Explorer) AllShots(ctx context.Context) []ShotRef {
	e.printf("Collecting shots...")
	construct, err := e.client.GetCurrentConstruct(ctx, scratch.LevelAll)
	if err != nil {
		e.logger.Warn("failed to collect shots", "error", err)
		e.printf("   error collecting shots: %v", err)
		return nil
	}

	shots := FlattenShots(construct)
	for _, shot := range shots {
		e.printf("   Slot %d, Version %d: %s (%d frames)", shot.SlotIndex, shot.VersionIndex, shot.Name, shot.Length)
	}
	e.printf("   Total: %d shot(s) found", len(shots))
	return shots
}

// FlattenShots walks every slot of a construct in order and returns one
// ShotRef per shot, tagged with its (slot index, version index) origin.
func FlattenShots(construct *scratch.Construct) []ShotRef {
	if construct == nil {
		return nil
	}
	var shots []ShotRef
	for slotIdx, slot := range construct.Slots {
		for versionIdx, shot := range slot.Shots {
			shots = append(shots, ShotRef{
				UUID:         shot.UUID,
				Name:         shot.Name,
				SlotIndex:    slotIdx,
				VersionIndex: versionIdx,
				File:         shot.File,
				Length:       shot.Length,
				Timecode:     shot.Timecode,
			})
		}
	}
	return shots
}

// GenerateThumbnail requests a proxy-quality still of a shot at the given
// frame and writes it to outputPath (a generated temp path when empty).
// The file is only written when the server declares image data; any other
// content type is a failure. Thumbnail failures are per-shot and never
// abort the workflow, so callers decide what to do with the error.
func (e *Explorer) GenerateThumbnail(ctx context.Context, shotID string, frame int, outputPath string) (string, error) {
	if outputPath == "" {
		stamp := time.Now().Format("20060102_150405")
		outputPath = filepath.Join(e.thumbDir, fmt.Sprintf("thumbnail_%s_%s.jpg", shortID(shotID), stamp))
	}

	snap, err := e.client.RenderSnapshot(ctx, scratch.ImageSnapshot{
		UUID:  shotID,
		Frame: frame,
		Proxy: true,
	})
	if err != nil {
		return "", fmt.Errorf("render snapshot for shot %s: %w", shotID, err)
	}

	if !snap.IsImage() {
		return "", fmt.Errorf("render snapshot for shot %s: unexpected content type %q", shotID, snap.ContentType)
	}

	if err := os.WriteFile(outputPath, snap.Data, 0644); err != nil {
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	return outputPath, nil
}

// RenderQueue fetches the render queue. Informational: on error it logs
// and returns an empty list.
func (e *Explorer) RenderQueue(ctx context.Context) []scratch.RenderQueueItem {
	e.printf("Render queue status...")
	queue, err := e.client.GetRenderQueue(ctx)
	if err != nil {
		e.logger.Warn("failed to fetch render queue", "error", err)
		e.printf("   error retrieving queue: %v", err)
		return nil
	}

	if len(queue) == 0 {
		e.printf("   Queue is empty")
		return nil
	}
	for _, item := range queue {
		e.printf("   - %s: %s (%d/%d frames)", item.Name, strings.ToLower(item.Status), item.FramesDone, item.FramesTotal)
	}
	return queue
}

// AddOutputToQueue enqueues a render for an output node. With autoStart the
// render begins immediately. Failures propagate.
func (e *Explorer) AddOutputToQueue(ctx context.Context, outputID string, autoStart bool) (*scratch.RenderQueueItem, error) {
	e.printf("Adding output to render queue...")
	if autoStart {
		item, err := e.client.StartRenderQueueItem(ctx, outputID, false)
		if err != nil {
			return nil, fmt.Errorf("start render for output %s: %w", outputID, err)
		}
		e.printf("   Render started for: %s", item.Name)
		return item, nil
	}

	item, err := e.client.AddRenderQueueItem(ctx, outputID)
	if err != nil {
		return nil, fmt.Errorf("enqueue output %s: %w", outputID, err)
	}
	e.printf("   Added to queue: %s", item.Name)
	return item, nil
}

// StartRender starts processing the render queue, optionally deleting the
// existing media of queued items first. Failures propagate.
func (e *Explorer) StartRender(ctx context.Context, deleteExisting bool) error {
	e.printf("Starting render queue...")
	if err := e.client.StartRender(ctx, deleteExisting); err != nil {
		return fmt.Errorf("start render: %w", err)
	}
	e.printf("   Render queue started")
	return nil
}

// EnterPlayer switches the session into player mode, for the given
// construct or the current one when constructID is empty. Failures
// propagate.
func (e *Explorer) EnterPlayer(ctx context.Context, constructID string) error {
	var err error
	if constructID != "" {
		err = e.client.EnterPlayer(ctx, constructID)
	} else {
		err = e.client.EnterPlayerCurrent(ctx)
	}
	if err != nil {
		return fmt.Errorf("enter player: %w", err)
	}
	e.printf("Player mode activated")
	return nil
}

// SetPlaybackMode pushes a playback configuration: the given mode and loop
// setting with audio on, unity speed and no range restriction. Failures
// propagate.
func (e *Explorer) SetPlaybackMode(ctx context.Context, mode, loop string) error {
	err := e.client.SetPlaymode(ctx, scratch.PlaymodeData{
		Mode:  mode,
		Loop:  loop,
		Audio: "ON",
		Speed: 1,
		Range: false,
	})
	if err != nil {
		return fmt.Errorf("set playmode: %w", err)
	}
	e.printf("   Playback: %s, Loop: %s", mode, loop)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
