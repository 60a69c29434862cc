package scratchsim

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/scratchtools/scratch-explorer/internal/explorer"
	"github.com/scratchtools/scratch-explorer/internal/scratch"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newSimClient(t *testing.T) (*scratch.HTTPClient, *State) {
	t.Helper()
	state := NewState()
	server := httptest.NewServer(NewRouter(state, testLogger()))
	t.Cleanup(server.Close)
	return scratch.NewHTTPClient(server.URL+"/APIV2", "", testLogger()), state
}

func TestSimulator_SystemProperties(t *testing.T) {
	client, _ := newSimClient(t)

	props, err := client.GetSystemProperties(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if props.SystemName != "SCRATCH Simulator" {
		t.Errorf("system_name = %q", props.SystemName)
	}
}

func TestSimulator_ProjectLifecycle(t *testing.T) {
	client, _ := newSimClient(t)
	ctx := context.Background()

	projects, err := client.GetProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(projects))
	}

	// No project open yet.
	if _, err := client.GetCurrentProject(ctx); err == nil {
		t.Fatal("expected error before entering a project")
	}
	if err := client.ExitProject(ctx); err == nil {
		t.Fatal("expected conflict exiting outside a project")
	}

	if err := client.EnterProject(ctx, "Demo Project"); err != nil {
		t.Fatalf("enter project: %v", err)
	}
	current, err := client.GetCurrentProject(ctx)
	if err != nil {
		t.Fatalf("current project: %v", err)
	}
	if current.Name != "Demo Project" {
		t.Errorf("current = %q", current.Name)
	}

	if err := client.EnterProject(ctx, "Nope"); err == nil {
		t.Fatal("expected error for unknown project")
	}
}

func TestSimulator_GroupsAndConstruct(t *testing.T) {
	client, _ := newSimClient(t)
	ctx := context.Background()

	if err := client.EnterProject(ctx, "Demo Project"); err != nil {
		t.Fatalf("enter project: %v", err)
	}

	basic, err := client.GetGroups(ctx, scratch.LevelBasic)
	if err != nil {
		t.Fatalf("basic groups: %v", err)
	}
	for _, g := range basic {
		if len(g.Constructs) != 0 {
			t.Errorf("basic level leaked constructs for %s", g.Name)
		}
	}

	detailed, err := client.GetGroups(ctx, scratch.LevelAll)
	if err != nil {
		t.Fatalf("detailed groups: %v", err)
	}
	if len(detailed) != 2 {
		t.Fatalf("groups = %d, want 2", len(detailed))
	}
	if len(detailed[1].Constructs) == 0 {
		t.Error("detailed level missing constructs")
	}

	group, err := client.SelectGroup(ctx, detailed[0].UUID, scratch.LevelAll)
	if err != nil {
		t.Fatalf("select group: %v", err)
	}
	if !group.Active || group.Name != "Dailies" {
		t.Errorf("selected group = %+v", group)
	}

	construct, err := client.GetCurrentConstruct(ctx, scratch.LevelAll)
	if err != nil {
		t.Fatalf("current construct: %v", err)
	}
	if construct.Name != "Day 01" {
		t.Errorf("construct = %q, want Day 01", construct.Name)
	}
	if len(construct.Slots) != 2 {
		t.Errorf("slots = %d, want 2", len(construct.Slots))
	}

	if _, err := client.SelectGroup(ctx, "missing", scratch.LevelAll); err == nil {
		t.Fatal("expected error for unknown group")
	}
}

func TestSimulator_Snapshot(t *testing.T) {
	client, _ := newSimClient(t)
	ctx := context.Background()

	if err := client.EnterProject(ctx, "Demo Project"); err != nil {
		t.Fatalf("enter project: %v", err)
	}
	construct, err := client.GetCurrentConstruct(ctx, scratch.LevelAll)
	if err != nil {
		t.Fatalf("current construct: %v", err)
	}
	shot := construct.Slots[0].Shots[0]

	snap, err := client.RenderSnapshot(ctx, scratch.ImageSnapshot{UUID: shot.UUID, Frame: 0, Proxy: true})
	if err != nil {
		t.Fatalf("render snapshot: %v", err)
	}
	if !snap.IsImage() {
		t.Errorf("content type = %q, want image", snap.ContentType)
	}
	if len(snap.Data) == 0 {
		t.Error("empty snapshot body")
	}

	if _, err := client.RenderSnapshot(ctx, scratch.ImageSnapshot{UUID: "missing"}); err == nil {
		t.Fatal("expected error for unknown shot")
	}
	if _, err := client.RenderSnapshot(ctx, scratch.ImageSnapshot{UUID: shot.UUID, Frame: 100000}); err == nil {
		t.Fatal("expected error for out of range frame")
	}
}

func TestSimulator_RenderQueue(t *testing.T) {
	client, _ := newSimClient(t)
	ctx := context.Background()

	queue, err := client.GetRenderQueue(ctx)
	if err != nil {
		t.Fatalf("get queue: %v", err)
	}
	if len(queue) != 0 {
		t.Fatalf("queue = %d items, want empty", len(queue))
	}

	if err := client.StartRender(ctx, false); err == nil {
		t.Fatal("expected conflict starting an empty queue")
	}

	item, err := client.AddRenderQueueItem(ctx, "out-main")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.Status != scratch.QueueStatusWaiting {
		t.Errorf("status = %q, want waiting", item.Status)
	}

	started, err := client.StartRenderQueueItem(ctx, "out-proxy", false)
	if err != nil {
		t.Fatalf("start item: %v", err)
	}
	if started.Status != scratch.QueueStatusProcessing {
		t.Errorf("status = %q, want processing", started.Status)
	}

	if err := client.StartRender(ctx, false); err != nil {
		t.Fatalf("start render: %v", err)
	}

	queue, err = client.GetRenderQueue(ctx)
	if err != nil {
		t.Fatalf("get queue: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("queue = %d items, want 2", len(queue))
	}
	for _, q := range queue {
		if q.Status != scratch.QueueStatusProcessing {
			t.Errorf("item %s status = %q, want processing after start", q.Name, q.Status)
		}
	}

	if _, err := client.AddRenderQueueItem(ctx, "nope"); err == nil {
		t.Fatal("expected error for unknown output")
	}
}

func TestSimulator_Player(t *testing.T) {
	client, _ := newSimClient(t)
	ctx := context.Background()

	// Playmode before the player is active is rejected.
	if err := client.EnterProject(ctx, "Demo Project"); err != nil {
		t.Fatalf("enter project: %v", err)
	}
	err := client.SetPlaymode(ctx, scratch.PlaymodeData{Mode: scratch.PlaymodePause, Loop: scratch.LoopOff, Audio: "ON", Speed: 1})
	if err == nil {
		t.Fatal("expected conflict before player entry")
	}

	if err := client.EnterPlayerCurrent(ctx); err != nil {
		t.Fatalf("enter player: %v", err)
	}
	err = client.SetPlaymode(ctx, scratch.PlaymodeData{Mode: scratch.PlaymodePlayReverse, Loop: scratch.LoopLoop, Audio: "ON", Speed: 1})
	if err != nil {
		t.Fatalf("set playmode: %v", err)
	}

	err = client.SetPlaymode(ctx, scratch.PlaymodeData{Mode: "WARP", Loop: scratch.LoopLoop})
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSimulator_EndToEndBrowse(t *testing.T) {
	client, state := newSimClient(t)

	e := explorer.New(client, testLogger(),
		explorer.WithOutput(io.Discard),
		explorer.WithThumbnailDir(t.TempDir()),
	)

	report := e.BrowseProject(context.Background(), "Demo Project", "")
	if !report.Success {
		t.Fatalf("browse failed: %v", report.Err)
	}
	// Last listed group is Conform, whose timeline carries six shots.
	if report.Group != "Conform" {
		t.Errorf("group = %q, want Conform", report.Group)
	}
	if report.ShotCount != 6 {
		t.Errorf("shots = %d, want 6", report.ShotCount)
	}
	if report.ThumbnailCount() != 5 {
		t.Errorf("thumbnails = %d, want capped at 5", report.ThumbnailCount())
	}
	for _, path := range report.Thumbnails {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("thumbnail missing on disk: %v", err)
		}
	}

	state.mu.Lock()
	playmode := state.playmode
	state.mu.Unlock()
	if playmode.Mode != scratch.PlaymodePlayReverse || playmode.Loop != scratch.LoopLoop {
		t.Errorf("playmode = %+v, want reverse loop", playmode)
	}
}

func TestSimulator_BrowseByGroupName(t *testing.T) {
	client, _ := newSimClient(t)

	e := explorer.New(client, testLogger(),
		explorer.WithOutput(io.Discard),
		explorer.WithThumbnailDir(t.TempDir()),
	)

	report := e.BrowseProject(context.Background(), "Demo Project", "Dailies")
	if !report.Success {
		t.Fatalf("browse failed: %v", report.Err)
	}
	if report.Group != "Dailies" {
		t.Errorf("group = %q, want Dailies", report.Group)
	}
	if report.ShotCount != 3 {
		t.Errorf("shots = %d, want 3", report.ShotCount)
	}
}
