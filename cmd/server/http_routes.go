package main

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"voxelsignal.ai/internal/persistence/snapshot"
	"voxelsignal.ai/internal/sim/world"
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/transport/ws"
)

type routeConfig struct {
	World   *world.World
	Logger  *log.Logger
	Metrics http.Handler
	// Snapshots requested through the admin API are handed to the writer.
	Snapshots chan<- snapshot.SnapshotV1

	EnableAdmin bool
}

func newRouter(cfg routeConfig) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}
	r.HandleFunc("/v1/ws", ws.NewServer(cfg.World, cfg.Logger).Handler())

	if !cfg.EnableAdmin {
		return r
	}
	// Local-only admin endpoints (do not affect simulation determinism).
	admin := r.PathPrefix("/admin/v1").Subrouter()
	admin.Use(loopbackOnly)
	admin.HandleFunc("/state", stateHandler(cfg.World)).Methods(http.MethodGet)
	admin.HandleFunc("/cell/{x}/{y}/{z}", cellHandler(cfg.World)).Methods(http.MethodGet)
	admin.HandleFunc("/snapshot", snapshotHandler(cfg.World, cfg.Snapshots)).Methods(http.MethodPost)
	return r
}

func loopbackOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(rw, r)
	})
}

func stateHandler(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		s, err := w.RequestSummary(ctx)
		if err != nil {
			writeJSON(rw, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		writeJSON(rw, http.StatusOK, s)
	}
}

func cellHandler(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		var pos [3]int
		for i, k := range []string{"x", "y", "z"} {
			v, err := strconv.Atoi(vars[k])
			if err != nil {
				writeJSON(rw, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad " + k})
				return
			}
			pos[i] = v
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		c, err := w.RequestCell(ctx, model.Vec3FromArray(pos))
		if err != nil {
			writeJSON(rw, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		writeJSON(rw, http.StatusOK, c)
	}
}

func snapshotHandler(w *world.World, sink chan<- snapshot.SnapshotV1) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		snap, err := w.RequestSnapshot(ctx)
		if err == nil && sink != nil {
			select {
			case sink <- snap:
			case <-ctx.Done():
				err = ctx.Err()
			}
		}
		if err != nil {
			writeJSON(rw, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		writeJSON(rw, http.StatusOK, map[string]any{"ok": true, "tick": snap.Header.Tick, "age": snap.Age})
	}
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
