// Package student contains the HTTP handlers that drive the roster store.
//
// These handlers are the presentation layer: they turn requests into the
// store's commands (search, select, clear selection, add, edit, remove),
// validate input before it reaches the store, and render the store's
// views back as JSON. The store itself never validates and never fails;
// every "not found" response is synthesized here.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function receives its dependencies once, at route
// registration, and returns the func(http.ResponseWriter, *http.Request)
// the router calls on every request:
//
//	router.HandleFunc("POST /api/students", student.New(roster, m))
//
// SELECTION POLICY:
// ─────────────────
// The store never clears the selection on its own. These handlers clear
// it after every successful add, edit and remove, so a stale record is
// never left pre-filling an edit form. Searching and selecting leave the
// selection to the caller.
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/aanand-mishra/students-roster/internal/metrics"
	"github.com/aanand-mishra/students-roster/internal/store"
	"github.com/aanand-mishra/students-roster/internal/types"
	"github.com/aanand-mishra/students-roster/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// Roster is the set of store operations the handlers need.
// *store.Store satisfies it.
type Roster interface {
	Search(term string)
	Select(id string)
	ClearSelection()
	Add(in types.StudentInput) types.Student
	Edit(id string, in types.StudentInput)
	Remove(id string)

	Get(id string) (types.Student, bool)
	All() []types.Student
	Filtered() []types.Student
	Selected() (types.Student, bool)
	Snapshot() store.View
}

// validate is shared; a *validator.Validate caches struct metadata and is
// safe for concurrent use. Errors name fields by their json tag.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Register wires every roster route onto router.
//
// Route table:
//
//	GET    /api/students?search=term  → search, then list the filtered view
//	GET    /api/students/all          → list the full collection
//	POST   /api/students              → add a student
//	GET    /api/students/{id}         → detail view of one student
//	PUT    /api/students/{id}         → replace a student's fields
//	DELETE /api/students/{id}         → remove a student
//	GET    /api/selection             → the selected student
//	PUT    /api/selection/{id}        → select a student
//	DELETE /api/selection             → clear the selection
//	GET    /api/state                 → every view in one consistent read
func Register(router *http.ServeMux, roster Roster, m *metrics.Metrics) {
	router.HandleFunc("GET /api/students", GetList(roster, m))
	router.HandleFunc("GET /api/students/all", GetAll(roster))
	router.HandleFunc("POST /api/students", New(roster, m))
	router.HandleFunc("GET /api/students/{id}", GetByID(roster))
	router.HandleFunc("PUT /api/students/{id}", Update(roster, m))
	router.HandleFunc("DELETE /api/students/{id}", Delete(roster, m))
	router.HandleFunc("GET /api/selection", GetSelection(roster))
	router.HandleFunc("PUT /api/selection/{id}", Select(roster, m))
	router.HandleFunc("DELETE /api/selection", ClearSelection(roster, m))
	router.HandleFunc("GET /api/state", GetState(roster))
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Adds a student built from the JSON request body.
//
// Request body (JSON):
//
//	{ "firstName": "Rakesh", "email": "rakesh@test.com", "collegeName": "X" }
//
// Success response (201 Created) — the new record with its generated id.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//
// ─────────────────────────────────────────────────────────────────────────────
func New(roster Roster, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		created := roster.Add(in)
		roster.ClearSelection()
		m.Observe(metrics.OpAdd)

		slog.Info("student created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns the filtered view. When the search query parameter is present
// (even empty) it becomes the new search term first; without it the
// current term stays in force.
//
// Returns an empty array [] (not null) when nothing matches.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(roster Roster, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Has("search") {
			term := query.Get("search")
			slog.Info("searching students", slog.String("term", term))
			roster.Search(term)
			m.Observe(metrics.OpSearch)
		}

		response.WriteJSON(w, http.StatusOK, roster.Filtered())
	}
}

// GetAll handles GET /api/students/all, ignoring the search term.
func GetAll(roster Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, roster.All())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
// The detail view for one student. It reads the record without selecting
// it.
//
// Error responses:
//
//	404 Not Found  — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(roster Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		student, ok := roster.Get(id)
		if !ok {
			writeNotFound(w, id)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Replaces ALL fields of an existing student. Fields missing from the body
// are removed from the record.
//
// Success response (200 OK) — the updated student.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or validation failure
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(roster Roster, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		if _, ok := roster.Get(id); !ok {
			writeNotFound(w, id)
			return
		}

		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		roster.Edit(id, in)
		roster.ClearSelection()
		m.Observe(metrics.OpEdit)

		updated, ok := roster.Get(id)
		if !ok {
			// removed by a concurrent request between Edit and Get
			writeNotFound(w, id)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
//
// Success response (200 OK):
//
//	{ "status": "deleted" }
//
// Error responses:
//
//	404 Not Found  — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(roster Roster, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		if _, ok := roster.Get(id); !ok {
			writeNotFound(w, id)
			return
		}

		roster.Remove(id)
		roster.ClearSelection()
		m.Observe(metrics.OpRemove)

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// Select handles PUT /api/selection/{id} and returns the selected record.
func Select(roster Roster, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("selecting a student", slog.String("id", id))

		roster.Select(id)
		m.Observe(metrics.OpSelect)

		selected, ok := roster.Selected()
		if !ok || selected.ID != id {
			writeNotFound(w, id)
			return
		}

		response.WriteJSON(w, http.StatusOK, selected)
	}
}

// GetSelection handles GET /api/selection.
func GetSelection(roster Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selected, ok := roster.Selected()
		if !ok {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(errors.New("no student selected")))
			return
		}

		response.WriteJSON(w, http.StatusOK, selected)
	}
}

// ClearSelection handles DELETE /api/selection. Clearing an empty
// selection succeeds too.
func ClearSelection(roster Roster, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roster.ClearSelection()
		m.Observe(metrics.OpClearSelection)

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

// GetState handles GET /api/state: the full collection, the filtered view,
// the selection and the search term, all from the same instant.
func GetState(roster Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, roster.Snapshot())
	}
}

// decodeInput reads and validates a StudentInput body. On failure it has
// already written the 400 response and returns false.
func decodeInput(w http.ResponseWriter, r *http.Request) (types.StudentInput, bool) {
	var in types.StudentInput

	err := json.NewDecoder(r.Body).Decode(&in)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return in, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return in, false
	}

	if err := validate.Struct(in); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return in, false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return in, false
	}

	return in, true
}

func writeNotFound(w http.ResponseWriter, id string) {
	response.WriteJSON(w, http.StatusNotFound,
		response.GeneralError(fmt.Errorf("no student found with id: %s", id)))
}
