package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/signkeeper/internal/common"
)

// Result codes carried in the response envelope.
const (
	CodeSuccess           = 0
	CodeUserNotFound      = -1000
	CodeSigninFailed      = -1001
	CodeAuthentication    = -1002
	CodeAccessDenied      = -1003
	CodeCommunication     = -1004
	CodeUserExists        = -1005
	CodeInvalidRequest    = -1006
	CodeUnsupportedSocial = -1007
	CodeUnknown           = -9999
)

// Result is the envelope of every response. Data holds a single value and
// List a collection; both are omitted when unused.
type Result struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Data    any    `json:"data,omitempty"`
	List    any    `json:"list,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, Result{Success: true, Code: CodeSuccess, Msg: "success"})
}

func writeSingle(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Result{Success: true, Code: CodeSuccess, Msg: "success", Data: data})
}

func writeList(w http.ResponseWriter, list any) {
	writeJSON(w, http.StatusOK, Result{Success: true, Code: CodeSuccess, Msg: "success", List: list})
}

// writeError maps service errors onto HTTP status and envelope code. The
// message is the sentinel text only.
func writeError(w http.ResponseWriter, err error) {
	status, code, msg := http.StatusInternalServerError, CodeUnknown, common.ErrorInternal.Error()

	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		status, code, msg = http.StatusUnauthorized, CodeSigninFailed, common.ErrInvalidCredentials.Error()
	case errors.Is(err, common.ErrTokenExpired):
		status, code, msg = http.StatusUnauthorized, CodeAuthentication, common.ErrTokenExpired.Error()
	case errors.Is(err, common.ErrInvalidToken):
		status, code, msg = http.StatusUnauthorized, CodeAuthentication, common.ErrInvalidToken.Error()
	case errors.Is(err, common.ErrForbidden):
		status, code, msg = http.StatusForbidden, CodeAccessDenied, common.ErrForbidden.Error()
	case errors.Is(err, common.ErrUserNotFound):
		status, code, msg = http.StatusNotFound, CodeUserNotFound, common.ErrUserNotFound.Error()
	case errors.Is(err, common.ErrUserExists):
		status, code, msg = http.StatusConflict, CodeUserExists, common.ErrUserExists.Error()
	case errors.Is(err, common.ErrUnsupportedProvider):
		status, code, msg = http.StatusBadRequest, CodeUnsupportedSocial, common.ErrUnsupportedProvider.Error()
	case errors.Is(err, common.ErrSocialAuth):
		status, code, msg = http.StatusBadGateway, CodeCommunication, common.ErrSocialAuth.Error()
	case errors.Is(err, common.ErrorValidation):
		status, code, msg = http.StatusBadRequest, CodeInvalidRequest, common.ErrorValidation.Error()
	}

	writeJSON(w, status, Result{Success: false, Code: code, Msg: msg})
}
