package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password, req.FullName, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	user, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token := s.sessions.Create(user.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if len(header) > len("Bearer ") {
		s.sessions.Destroy(header[len("Bearer "):])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.BookFilter{
		Query:  query.Get("q"),
		Title:  query.Get("title"),
		Author: query.Get("author"),
		Genre:  query.Get("genre"),
		ISBN:   query.Get("isbn"),
	}
	if year := query.Get("year"); year != "" {
		n, err := strconv.Atoi(year)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error":   "year must be a number",
			})
			return
		}
		filter.Year = n
	}

	books, err := s.catalog.Search(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"books":   books,
	})
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		Author    string `json:"author"`
		Year      int    `json:"year"`
		ISBN      string `json:"isbn"`
		Publisher string `json:"publisher"`
		Genre     string `json:"genre"`
		Pages     int    `json:"pages"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	book, err := s.catalog.AddBook(r.Context(), principal(r), &domain.Book{
		Title:     req.Title,
		Author:    req.Author,
		Year:      req.Year,
		ISBN:      req.ISBN,
		Publisher: req.Publisher,
		Genre:     req.Genre,
		Pages:     req.Pages,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"book":    book,
	})
}

func (s *Server) handleWriteOffBook(w http.ResponseWriter, r *http.Request) {
	bookID := pathID(r)
	if err := s.catalog.WriteOff(r.Context(), principal(r), bookID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleReserveBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID uint `json:"book_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "book_id is required",
		})
		return
	}

	res, err := s.reservations.Reserve(r.Context(), principal(r), req.BookID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"reservation": res,
	})
}

func (s *Server) handleConfirmReservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LeadDays int `json:"lead_days"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error":   "invalid request body",
			})
			return
		}
	}

	res, err := s.reservations.Confirm(r.Context(), principal(r), pathID(r), req.LeadDays)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"reservation": res,
	})
}

func (s *Server) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	user := principal(r)
	if user == nil {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	// Readers may only cancel their own reservations; admins may cancel any.
	reservationID := pathID(r)
	existing, err := s.reservations.Get(r.Context(), reservationID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !user.IsAdmin() && existing.UserID != user.ID {
		writeError(w, domain.ErrForbidden)
		return
	}

	res, err := s.reservations.Cancel(r.Context(), reservationID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"reservation": res,
	})
}

func (s *Server) handleCompleteReservation(w http.ResponseWriter, r *http.Request) {
	user := principal(r)
	if user == nil {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	if !user.IsAdmin() {
		writeError(w, domain.ErrForbidden)
		return
	}

	res, err := s.reservations.Complete(r.Context(), pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"reservation": res,
	})
}

func (s *Server) handleMyReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := s.reservations.ListForUser(r.Context(), principal(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"reservations": reservations,
	})
}

// pathID extracts the numeric {id} route variable. Routes constrain the
// variable to digits, so parsing cannot fail for matched requests.
func pathID(r *http.Request) uint {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(id)
}
