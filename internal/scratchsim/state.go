// Package scratchsim is an in-process stand-in for the SCRATCH REST API.
// It serves the subset of APIV2 this tool drives, backed by seeded
// in-memory session state, for tests and for developing against no real
// SCRATCH installation.
package scratchsim

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/scratchtools/scratch-explorer/internal/scratch"
)

// jpegStub is a minimal JPEG payload for snapshot responses. Real pixel
// data is irrelevant; clients only check the content type and persist the
// bytes.
var jpegStub = []byte{
	0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01,
	0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0xFF, 0xD9,
}

type projectState struct {
	project scratch.Project
	groups  []scratch.Group
}

// State holds the simulated session. Access is serialized because the
// simulator is an HTTP server even though real clients drive it one call
// at a time.
type State struct {
	mu sync.Mutex

	props    scratch.SystemProperties
	projects []*projectState

	currentProject *projectState
	currentGroup   string

	outputs map[string]string
	queue   []scratch.RenderQueueItem

	playerActive bool
	playmode     scratch.PlaymodeData
}

// NewState returns a State seeded with a demo project hierarchy: two
// projects, groups with constructs, slots and shots, and two render
// output nodes ("out-main", "out-proxy").
func NewState() *State {
	s := &State{
		props: scratch.SystemProperties{
			SystemName: "SCRATCH Simulator",
			Version:    "9.3",
			Build:      "1021",
		},
		outputs: map[string]string{
			"out-main":  "Main Output",
			"out-proxy": "Proxy Output",
		},
	}

	s.projects = []*projectState{
		{
			project: scratch.Project{Name: "Demo Project", Modified: "2026-08-12 14:03:11"},
			groups: []scratch.Group{
				{
					UUID: uuid.NewString(),
					Name: "Dailies",
					Constructs: []scratch.Construct{
						seedConstruct("Day 01", 1920, 1080, 24, [][]string{
							{"A001_C001", "A001_C002"},
							{"A002_C001"},
						}),
					},
				},
				{
					UUID:   uuid.NewString(),
					Name:   "Conform",
					Active: true,
					Constructs: []scratch.Construct{
						seedConstruct("Spot v3", 3840, 2160, 24, [][]string{
							{"SH010", "SH020", "SH030", "SH040", "SH050", "SH060"},
						}),
					},
				},
			},
		},
		{
			project: scratch.Project{Name: "Archive", Modified: "2025-11-02 09:41:00"},
			groups: []scratch.Group{
				{
					UUID:   uuid.NewString(),
					Name:   "Masters",
					Active: true,
					Constructs: []scratch.Construct{
						seedConstruct("Reel 1", 2048, 1080, 25, [][]string{
							{"M001"},
						}),
					},
				},
			},
		},
	}

	return s
}

func seedConstruct(name string, w, h int, fps float64, slots [][]string) scratch.Construct {
	construct := scratch.Construct{
		UUID:       uuid.NewString(),
		Name:       name,
		Resolution: scratch.Resolution{W: w, H: h},
		FPS:        fps,
	}
	frame := 0
	for _, shotNames := range slots {
		slot := scratch.Slot{}
		for _, shotName := range shotNames {
			slot.Shots = append(slot.Shots, scratch.Shot{
				UUID:     uuid.NewString(),
				Name:     shotName,
				File:     "/media/" + strings.ToLower(shotName) + ".mov",
				Length:   72 + frame%48,
				Timecode: "01:00:00:00",
			})
			frame += 24
		}
		construct.Slots = append(construct.Slots, slot)
	}
	return construct
}

func (s *State) findProject(name string) *projectState {
	for _, p := range s.projects {
		if p.project.Name == name {
			return p
		}
	}
	return nil
}

// activeConstruct returns the first construct of the currently selected
// group, or nil when the session has no group with timelines.
func (s *State) activeConstruct() *scratch.Construct {
	if s.currentProject == nil {
		return nil
	}
	for i := range s.currentProject.groups {
		g := &s.currentProject.groups[i]
		if g.UUID == s.currentGroup && len(g.Constructs) > 0 {
			return &g.Constructs[0]
		}
	}
	return nil
}

func (s *State) findShot(shotID string) *scratch.Shot {
	construct := s.activeConstruct()
	if construct == nil {
		return nil
	}
	for i := range construct.Slots {
		for j := range construct.Slots[i].Shots {
			if construct.Slots[i].Shots[j].UUID == shotID {
				return &construct.Slots[i].Shots[j]
			}
		}
	}
	return nil
}

// groupsForLevel returns the current project's groups, stripping construct
// detail unless the caller asked for level ALL.
func (s *State) groupsForLevel(level string) []scratch.Group {
	if s.currentProject == nil {
		return nil
	}
	groups := make([]scratch.Group, len(s.currentProject.groups))
	copy(groups, s.currentProject.groups)
	if !strings.EqualFold(level, scratch.LevelAll) {
		for i := range groups {
			groups[i].Constructs = nil
		}
	}
	return groups
}

func (s *State) selectGroup(groupID string) *scratch.Group {
	if s.currentProject == nil {
		return nil
	}
	var selected *scratch.Group
	for i := range s.currentProject.groups {
		g := &s.currentProject.groups[i]
		g.Active = g.UUID == groupID
		if g.Active {
			selected = g
		}
	}
	if selected != nil {
		s.currentGroup = selected.UUID
	}
	return selected
}

func (s *State) enterProject(name string) bool {
	p := s.findProject(name)
	if p == nil {
		return false
	}
	s.currentProject = p
	s.currentGroup = ""
	for _, g := range p.groups {
		if g.Active {
			s.currentGroup = g.UUID
		}
	}
	s.playerActive = false
	return true
}
