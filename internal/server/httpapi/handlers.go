package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/signkeeper/internal/common"
	"github.com/dmitrijs2005/signkeeper/internal/server/models"
)

func (s *HTTPServer) signin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token, err := s.auth.Signin(r.Context(), q.Get("id"), q.Get("password"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSingle(w, token)
}

func (s *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if _, err := s.auth.Signup(r.Context(), q.Get("id"), q.Get("password"), q.Get("name")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

func (s *HTTPServer) signinByProvider(w http.ResponseWriter, r *http.Request) {
	token, err := s.auth.SigninByProvider(r.Context(), mux.Vars(r)["provider"], r.FormValue("accessToken"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSingle(w, token)
}

func (s *HTTPServer) signupProvider(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.SignupProvider(r.Context(), mux.Vars(r)["provider"], r.FormValue("accessToken"), r.FormValue("name")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.FindAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]models.UserView, 0, len(list))
	for _, u := range list {
		views = append(views, u.View())
	}
	writeList(w, views)
}

func (s *HTTPServer) currentUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.FindCurrent(r.Context(), identityFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSingle(w, u.View())
}

func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		writeError(w, common.ErrorValidation)
		return
	}
	u, err := s.users.UpdateName(r.Context(), identityFrom(r), id, r.FormValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSingle(w, u.View())
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, common.ErrorValidation)
		return
	}
	if err := s.users.Delete(r.Context(), identityFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}
