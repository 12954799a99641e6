// pkg/core/handlers.go
package core

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joeydtaylor/steeze-factory/pkg/codec"
	"github.com/joeydtaylor/steeze-factory/pkg/factory"
)

const maxBody = 1 << 20

// HTTPStatus maps a response outcome to an HTTP status code.
func HTTPStatus(resp factory.Response) int {
	switch resp.Outcome() {
	case factory.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	case factory.OutcomeUnknownTopic:
		return resp.Status
	default:
		return http.StatusOK
	}
}

func handleEnvelope(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			writeError(w, "request too large", http.StatusRequestEntityTooLarge)
			return
		}
		msg, err := factory.DecodeMessage(body)
		if err != nil {
			writeError(w, "malformed message", http.StatusBadRequest)
			return
		}
		writeResult(w, d.Dispatch(r.Context(), msg))
	}
}

func handleTopic(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			writeError(w, "request too large", http.StatusRequestEntityTooLarge)
			return
		}
		p, err := factory.DecodePayload(body)
		if err != nil {
			writeError(w, "malformed message", http.StatusBadRequest)
			return
		}
		topic := chi.URLParam(r, "group") + "/" + chi.URLParam(r, "name")
		writeResult(w, d.Dispatch(r.Context(), factory.Message{Topic: topic, Payload: p}))
	}
}

func handleOrderState(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, d.Store().Order(), http.StatusOK)
	}
}

func handleStockState(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, d.Store().Stock(), http.StatusOK)
	}
}

func handleNfcState(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		log := d.Store().NfcLog()
		if log == nil {
			log = []factory.NfcLogEntry{}
		}
		writeJSON(w, log, http.StatusOK)
	}
}

func writeResult(w http.ResponseWriter, res Result) {
	w.Header().Set(HeaderMessageID, res.ID)
	writeJSON(w, res.Response, HTTPStatus(res.Response))
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, factory.Response{Error: msg}, status)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	b, err := codec.JSON.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", codec.JSON.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
