package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kuro-gg/wuwa-draft-backend/internal/auth"
	"github.com/kuro-gg/wuwa-draft-backend/internal/draft"
	"github.com/kuro-gg/wuwa-draft-backend/internal/hub"
	"github.com/kuro-gg/wuwa-draft-backend/internal/room"
	"github.com/kuro-gg/wuwa-draft-backend/internal/roster"
	"github.com/kuro-gg/wuwa-draft-backend/internal/store"
	"github.com/kuro-gg/wuwa-draft-backend/internal/view"
)

// Login resolves (or lazily creates) a user by external identity id and sets
// the session cookie. This stands in for the upstream OAuth collaborator.
func Login(st store.Store, sessions *auth.Sessions, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ExternalID  string `json:"externalId"`
			DisplayName string `json:"displayName"`
		}
		if err := readJSON(r, &body); err != nil || body.ExternalID == "" {
			writeError(w, http.StatusBadRequest, "VALIDATION", "externalId is required")
			return
		}

		u, err := st.UserByExternalID(r.Context(), body.ExternalID)
		if errors.Is(err, store.ErrNotFound) {
			name := body.DisplayName
			if name == "" {
				name = "Rover"
			}
			u, err = st.CreateUser(r.Context(), draft.User{
				ExternalID:  body.ExternalID,
				DisplayName: name,
				Box:         draft.Box{},
			})
		}
		if err != nil {
			log.Error("login failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "could not resolve user")
			return
		}

		token, err := sessions.Issue(u.ID)
		if err != nil {
			log.Error("issuing session", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "could not issue session")
			return
		}
		sessions.SetCookie(w, token)
		writeJSON(w, http.StatusOK, u)
	}
}

func Me(st store.Store, sessions *auth.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessions.UserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no session")
			return
		}
		u, err := st.User(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "unknown user")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// UpdateBox replaces the caller's owned-character box.
func UpdateBox(st store.Store, sessions *auth.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessions.UserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no session")
			return
		}
		var body struct {
			Box draft.Box `json:"box"`
		}
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "malformed body")
			return
		}
		for id, entry := range body.Box {
			if !roster.IsValid(id) {
				writeError(w, http.StatusBadRequest, "VALIDATION", "unknown character: "+id)
				return
			}
			if entry.Sequences < 0 || entry.Sequences > 6 {
				writeError(w, http.StatusBadRequest, "VALIDATION", "sequences must be 0..6")
				return
			}
		}
		u, err := st.UpdateUserBox(r.Context(), userID, body.Box)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL", "could not update box")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func ListMatches(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := st.Matches(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL", "could not list matches")
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func CreateMatch(st store.Store, sessions *auth.Sessions, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessions.UserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no session")
			return
		}
		var body struct {
			Mode     string `json:"mode"`
			BanTime  int    `json:"banTime"`
			PrepTime int    `json:"prepTime"`
		}
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "malformed body")
			return
		}

		m, err := st.CreateMatch(r.Context(), draft.NewMatch(userID, body.Mode, body.BanTime, body.PrepTime))
		if err != nil {
			log.Error("creating match", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "could not create match")
			return
		}
		log.Info("match created",
			zap.Int64("match_id", m.ID),
			zap.Int64("host_id", userID),
			zap.String("mode", m.Mode))
		writeJSON(w, http.StatusCreated, m)
	}
}

func GetMatch(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "invalid match id")
			return
		}
		m, err := st.Match(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "match not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL", "could not load match")
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// JoinMatch admits the caller as guest. The transition runs inside the
// match's room so it cannot interleave with draft actions.
func JoinMatch(h *hub.Hub, st store.Store, sessions *auth.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessions.UserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no session")
			return
		}
		id, err := matchID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "invalid match id")
			return
		}
		if _, err := st.Match(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "NOT_FOUND", "match not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "INTERNAL", "could not load match")
			return
		}

		reply := make(chan room.JoinReply, 1)
		h.Room(id).Inbox() <- room.SubmitJoin{UserID: userID, Reply: reply}
		res := <-reply
		if res.Err != nil {
			status := http.StatusBadRequest
			if errors.Is(res.Err, store.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeError(w, status, room.Code(res.Err), res.Err.Error())
			return
		}
		writeJSON(w, http.StatusOK, res.Match)
	}
}

// MatchView returns the caller's view-model flags for a match; handy for
// clients that do not want to duplicate the derivation.
func MatchView(st store.Store, sessions *auth.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := sessions.UserID(r)
		id, err := matchID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "invalid match id")
			return
		}
		m, err := st.Match(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "match not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL", "could not load match")
			return
		}
		writeJSON(w, http.StatusOK, view.For(m, userID))
	}
}

func Characters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, roster.Characters)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func matchID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
