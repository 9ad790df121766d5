package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/ai-jobs-tracker/internal/server/middleware"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// bookmarkUser resolves the authenticated user and checks that bookmarks are available.
func (s *Server) bookmarkUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.deps.Bookmarks == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "bookmarks are not configured")
		return uuid.Nil, false
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.bookmarkUser(w, r)
	if !ok {
		return
	}
	bookmarks, err := s.deps.Bookmarks.ListBookmarks(r.Context(), userID)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []types.Bookmark{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"bookmarks": bookmarks,
		"total":     len(bookmarks),
	})
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.bookmarkUser(w, r)
	if !ok {
		return
	}

	var req types.CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	bookmark, err := s.deps.Bookmarks.CreateBookmark(r.Context(), userID, &req)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, bookmark)
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.bookmarkUser(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid bookmark ID")
		return
	}

	deleted, err := s.deps.Bookmarks.DeleteBookmark(r.Context(), userID, id)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "bookmark not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
