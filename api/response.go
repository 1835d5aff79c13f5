package api

import (
  "encoding/json"
  "net/http"

  "github.com/rs/zerolog/log"
)

type ResponseHandler struct {
  Writer http.ResponseWriter
}

type ErrorInfo struct {
  Detail string `json:"detail"`
}

func (h *ResponseHandler) Json(data interface{}) {
  h.JsonStatus(http.StatusOK, data)
}

func (h *ResponseHandler) JsonStatus(status int, data interface{}) {
  buf, err := json.Marshal(data)
  if err != nil {
    log.Error().Err(err).Msg("response encode failed")
    h.Error(http.StatusInternalServerError, err.Error())
    return
  }
  h.Raw(status, buf)
}

func (h *ResponseHandler) Raw(status int, body []byte) {
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(status)
  h.Writer.Write(body)
}

func (h *ResponseHandler) Error(status int, detail string) {
  buf, _ := json.Marshal(&ErrorInfo{
    Detail: detail,
  })
  h.Raw(status, buf)
}
