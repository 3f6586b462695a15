package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/harshith-118/AI-Interviewer/internal/models"
	"github.com/harshith-118/AI-Interviewer/internal/session"
)

const (
	// SessionCookie carries the session ID for browsers
	SessionCookie = "interview_session"
	// SessionHeader carries the session ID for API clients
	SessionHeader = "X-Session-ID"
)

var errBadRequest = errors.New("bad request")

// session resolves the caller's session from the header or the cookie and
// hands a newly created ID back through both.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
	}

	sess, created := s.agent.Session(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	w.Header().Set(SessionHeader, sess.ID)
	return sess
}

// upload is a parsed upload request
type upload struct {
	file     multipart.File
	filename string
	params   models.GenerationParams
}

// parseUpload reads the multipart file, temperature and max_tokens fields.
// Missing parameters fall back to current.
func parseUpload(w http.ResponseWriter, r *http.Request, current models.GenerationParams) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: failed to parse form: %v", errBadRequest, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: file is required", errBadRequest)
	}

	params := current
	if v := strings.TrimSpace(r.FormValue("temperature")); v != "" {
		t, err := strconv.ParseFloat(v, 32)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("%w: temperature must be a number", errBadRequest)
		}
		params.Temperature = float32(t)
	}
	if v := strings.TrimSpace(r.FormValue("max_tokens")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("%w: max_tokens must be an integer", errBadRequest)
		}
		params.MaxOutputTokens = n
	}

	return &upload{file: file, filename: header.Filename, params: params}, nil
}

// checkAnswer enforces the answer length limit
func checkAnswer(answer string) error {
	if utf8.RuneCountInString(answer) > maxAnswerChars {
		return fmt.Errorf("%w: answer exceeds %d characters", errBadRequest, maxAnswerChars)
	}
	return nil
}
