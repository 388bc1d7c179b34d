package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"bidtrack/models"
)

// UserSource — справочник пользователей. Пользователи заводятся вне
// системы, в проекции не живут и читаются напрямую из базы.
type UserSource interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// GetUsersHandler отдает справочник пользователей; ?email= сужает
// выборку до одного
func (h *Handler) GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		u, err := h.Users.GetUserByEmail(r.Context(), email)
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, u)
		return
	}
	users, err := h.Users.GetAllUsers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
