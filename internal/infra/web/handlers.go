package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ragchat-storage/internal/domain"
	"ragchat-storage/internal/domain/model"
	"ragchat-storage/internal/infra/logging"
	"ragchat-storage/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type sessionRequest struct {
	SessionName string `json:"session_name"`
}

type messageRequest struct {
	Content string `json:"content"`
	Context string `json:"context,omitempty"`
}

type tokenRequest struct {
	UserID string `json:"user_id"`
}

type pageResponse struct {
	Content     interface{} `json:"content"`
	CurrentPage int         `json:"current_page"`
	PageSize    int         `json:"page_size"`
	TotalItems  int64       `json:"total_items"`
	HasNext     bool        `json:"has_next"`
}

// tokenHandler mints a development bearer token for a given user id.
func tokenHandler(auth *AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.UserID == "" {
			req.UserID = "default-user"
		}
		token, err := auth.Mint(req.UserID)
		if err != nil {
			http.Error(w, "Failed to mint token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token, "user_id": req.UserID})
	}
}

func sessionCreateHandler(sessionUC usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := logging.UserID(r.Context())

		var req sessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		s, err := sessionUC.Create(r.Context(), userID, req.SessionName)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, s)
	}
}

func sessionListHandler(sessionUC usecase.SessionUseCase, favorites bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := logging.UserID(r.Context())
		offset, limit := pagination(r, 10)

		var (
			sessions []*usecase.SessionWithCount
			total    int64
			err      error
		)
		if favorites {
			sessions, total, err = sessionUC.ListFavorites(r.Context(), userID, offset, limit)
		} else {
			sessions, total, err = sessionUC.List(r.Context(), userID, offset, limit)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pageResponse{
			Content:     sessions,
			CurrentPage: offset / limit,
			PageSize:    limit,
			TotalItems:  total,
			HasNext:     int64(offset+limit) < total,
		})
	}
}

func sessionGetHandler(sessionUC usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := logging.UserID(r.Context())
		id, err := sessionID(r)
		if err != nil {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}
		s, err := sessionUC.Get(r.Context(), id, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func sessionRenameHandler(sessionUC usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := logging.UserID(r.Context())
		id, err := sessionID(r)
		if err != nil {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}
		var req sessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		s, err := sessionUC.Rename(r.Context(), id, userID, req.SessionName)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func sessionFavoriteHandler(sessionUC usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := logging.UserID(r.Context())
		id, err := sessionID(r)
		if err != nil {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}
		s, err := sessionUC.ToggleFavorite(r.Context(), id, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func sessionDeleteHandler(sessionUC usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := logging.UserID(r.Context())
		id, err := sessionID(r)
		if err != nil {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}
		if err := sessionUC.Delete(r.Context(), id, userID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// messageAddHandler runs the exchange pipeline. Rate limiting happens inside
// the use case, not in middleware, so one HTTP call costs exactly one slot.
func messageAddHandler(messageUC usecase.MessageUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := logging.UserID(r.Context())
		id, err := sessionID(r)
		if err != nil {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		msgs, err := messageUC.AddMessage(r.Context(), id, userID, req.Content, req.Context)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msgs)
	}
}

func messageListHandler(messageUC usecase.MessageUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := logging.UserID(r.Context())
		id, err := sessionID(r)
		if err != nil {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}
		offset, limit := pagination(r, 20)
		msgs, total, err := messageUC.ListMessages(r.Context(), id, userID, offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if msgs == nil {
			msgs = []*model.Message{}
		}
		writeJSON(w, http.StatusOK, pageResponse{
			Content:     msgs,
			CurrentPage: offset / limit,
			PageSize:    limit,
			TotalItems:  total,
			HasNext:     int64(offset+limit) < total,
		})
	}
}

func sessionID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func pagination(r *http.Request, defaultLimit int) (offset, limit int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = defaultLimit
	}
	return page * size, size
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Storage failures stay 500
// and the raw error never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRateLimitExceeded):
		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, "Invalid argument", http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
