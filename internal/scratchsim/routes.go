package scratchsim

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scratchtools/scratch-explorer/internal/scratch"
)

// NewRouter builds the simulated APIV2 surface over the given state.
func NewRouter(state *State, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))

	r.Route("/APIV2", func(api chi.Router) {
		api.Get("/system/properties", systemPropertiesHandler(state))

		api.Get("/projects", listProjectsHandler(state))
		api.Get("/projects/current", currentProjectHandler(state))
		api.Get("/projects/groups", listGroupsHandler(state))
		api.Post("/projects/groups/{id}/select", selectGroupHandler(state))
		api.Get("/projects/constructs/current", currentConstructHandler(state))

		api.Post("/application/project/enter", enterProjectHandler(state))
		api.Post("/application/project/exit", exitProjectHandler(state))
		api.Post("/application/render/snapshot", renderSnapshotHandler(state))
		api.Get("/application/render/queue", renderQueueHandler(state))
		api.Put("/application/render/queue/{outputID}", addQueueItemHandler(state))
		api.Post("/application/render/queue/{outputID}", startQueueItemHandler(state))
		api.Post("/application/render/start", startRenderHandler(state))
		api.Post("/application/player/timeline/current", enterPlayerCurrentHandler(state))
		api.Post("/application/player/timeline/{constructID}", enterPlayerHandler(state))
		api.Put("/application/player/playmode", playmodeHandler(state))
	})

	return r
}

func systemPropertiesHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		props := state.props
		state.mu.Unlock()
		WriteJSON(w, http.StatusOK, props)
	}
}

func listProjectsHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		defer state.mu.Unlock()

		list := scratch.ProjectList{Projects: []scratch.Project{}}
		for _, p := range state.projects {
			list.Projects = append(list.Projects, p.project)
		}
		WriteJSON(w, http.StatusOK, list)
	}
}

func currentProjectHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		defer state.mu.Unlock()

		if state.currentProject == nil {
			WriteError(w, http.StatusNotFound, "no project is open", "NO_PROJECT")
			return
		}
		WriteJSON(w, http.StatusOK, state.currentProject.project)
	}
}

func enterProjectHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			WriteError(w, http.StatusBadRequest, "project name is required", "BAD_REQUEST")
			return
		}

		state.mu.Lock()
		defer state.mu.Unlock()

		if !state.enterProject(req.Name) {
			WriteError(w, http.StatusNotFound, "unknown project: "+req.Name, "NO_PROJECT")
			return
		}
		WriteJSON(w, http.StatusOK, state.currentProject.project)
	}
}

func exitProjectHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		defer state.mu.Unlock()

		if state.currentProject == nil {
			WriteError(w, http.StatusConflict, "not inside a project", "NO_PROJECT")
			return
		}
		state.currentProject = nil
		state.currentGroup = ""
		state.playerActive = false
		w.WriteHeader(http.StatusOK)
	}
}

func listGroupsHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		defer state.mu.Unlock()

		if state.currentProject == nil {
			WriteError(w, http.StatusConflict, "not inside a project", "NO_PROJECT")
			return
		}
		groups := state.groupsForLevel(r.URL.Query().Get("level"))
		WriteJSON(w, http.StatusOK, scratch.GroupList{Groups: groups})
	}
}

func selectGroupHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		defer state.mu.Unlock()

		if state.currentProject == nil {
			WriteError(w, http.StatusConflict, "not inside a project", "NO_PROJECT")
			return
		}

		group := state.selectGroup(chi.URLParam(r, "id"))
		if group == nil {
			WriteError(w, http.StatusNotFound, "unknown group", "NO_GROUP")
			return
		}

		out := *group
		if !strings.EqualFold(r.URL.Query().Get("level"), scratch.LevelAll) {
			out.Constructs = nil
		}
		WriteJSON(w, http.StatusOK, out)
	}
}

func currentConstructHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		defer state.mu.Unlock()

		construct := state.activeConstruct()
		if construct == nil {
			WriteError(w, http.StatusNotFound, "no active construct", "NO_CONSTRUCT")
			return
		}

		out := *construct
		if !strings.EqualFold(r.URL.Query().Get("level"), scratch.LevelAll) {
			out.Slots = nil
		}
		WriteJSON(w, http.StatusOK, out)
	}
}

func renderSnapshotHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snap scratch.ImageSnapshot
		if err := json.NewDecoder(r.Body).Decode(&snap); err != nil || snap.UUID == "" {
			WriteError(w, http.StatusBadRequest, "shot uuid is required", "BAD_REQUEST")
			return
		}

		state.mu.Lock()
		shot := state.findShot(snap.UUID)
		state.mu.Unlock()

		if shot == nil {
			WriteError(w, http.StatusNotFound, "unknown shot: "+snap.UUID, "NO_SHOT")
			return
		}
		if snap.Frame < 0 || snap.Frame >= shot.Length {
			WriteError(w, http.StatusBadRequest, "frame out of range", "BAD_FRAME")
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
		w.Write(jpegStub)
	}
}

func renderQueueHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		queue := make([]scratch.RenderQueueItem, len(state.queue))
		copy(queue, state.queue)
		state.mu.Unlock()
		WriteJSON(w, http.StatusOK, queue)
	}
}

func addQueueItemHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enqueue(state, w, chi.URLParam(r, "outputID"), scratch.QueueStatusWaiting)
	}
}

func startQueueItemHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enqueue(state, w, chi.URLParam(r, "outputID"), scratch.QueueStatusProcessing)
	}
}

func enqueue(state *State, w http.ResponseWriter, outputID, status string) {
	state.mu.Lock()
	defer state.mu.Unlock()

	name, ok := state.outputs[outputID]
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown output: "+outputID, "NO_OUTPUT")
		return
	}

	item := scratch.RenderQueueItem{
		Name:        name,
		Status:      status,
		FramesTotal: 1440,
	}
	state.queue = append(state.queue, item)
	WriteJSON(w, http.StatusOK, item)
}

func startRenderHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		defer state.mu.Unlock()

		if len(state.queue) == 0 {
			WriteError(w, http.StatusConflict, "render queue is empty", "EMPTY_QUEUE")
			return
		}
		for i := range state.queue {
			if strings.EqualFold(state.queue[i].Status, scratch.QueueStatusWaiting) {
				state.queue[i].Status = scratch.QueueStatusProcessing
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func enterPlayerCurrentHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		defer state.mu.Unlock()

		if state.activeConstruct() == nil {
			WriteError(w, http.StatusConflict, "no construct to play", "NO_CONSTRUCT")
			return
		}
		state.playerActive = true
		w.WriteHeader(http.StatusOK)
	}
}

func enterPlayerHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		constructID := chi.URLParam(r, "constructID")

		state.mu.Lock()
		defer state.mu.Unlock()

		if state.currentProject == nil {
			WriteError(w, http.StatusConflict, "not inside a project", "NO_PROJECT")
			return
		}
		for i := range state.currentProject.groups {
			for _, construct := range state.currentProject.groups[i].Constructs {
				if construct.UUID == constructID {
					state.playerActive = true
					w.WriteHeader(http.StatusOK)
					return
				}
			}
		}
		WriteError(w, http.StatusNotFound, "unknown construct: "+constructID, "NO_CONSTRUCT")
	}
}

func playmodeHandler(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var playmode scratch.PlaymodeData
		if err := json.NewDecoder(r.Body).Decode(&playmode); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid playmode body", "BAD_REQUEST")
			return
		}

		switch playmode.Mode {
		case scratch.PlaymodePause, scratch.PlaymodePlayForward, scratch.PlaymodePlayReverse:
		default:
			WriteError(w, http.StatusBadRequest, "unknown playback mode: "+playmode.Mode, "BAD_MODE")
			return
		}

		state.mu.Lock()
		defer state.mu.Unlock()

		if !state.playerActive {
			WriteError(w, http.StatusConflict, "player is not active", "NO_PLAYER")
			return
		}
		state.playmode = playmode
		w.WriteHeader(http.StatusOK)
	}
}
