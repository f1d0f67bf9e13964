/*
   cbmbam - Commodore disk image block availability map tool
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of cbmbam.

   cbmbam is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   cbmbam is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with cbmbam. If not, see <http://www.gnu.org/licenses/>.
*/

package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/cbmbam/pkg/bam"
)

//
const DefaultPort = 8564

//
type APIServer interface {
	Serve() error
	Stop() error
}

// NewAPIServer creates an API server for the BAM of one image. The store is
// not safe for concurrent use, so the server runs one request against it at a
// time.
func NewAPIServer(addr string, store *bam.Store) APIServer {

	if len(strings.Split(addr, ":")) < 2 {
		addr = fmt.Sprintf("%s:%d", addr, DefaultPort)
	}

	a := &api{store: store}
	a.server = &http.Server{Addr: addr, Handler: a.router()}
	return a
}

//
type api struct {
	store  *bam.Store
	server *http.Server
	lock   sync.Mutex
}

// Serve returns right away when Stop was called before.
func (a *api) Serve() error {
	log.Infof("BAM API starts listening on %s", a.server.Addr)
	err := a.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

//
func (a *api) Stop() error {
	log.Info("API server stopping...")
	return a.server.Shutdown(context.Background())
}

//
func (a *api) router() *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	addRoute(router, "status", "GET", "/status", a.status)
	addRoute(router, "map", "GET", "/map", a.emit)
	addRoute(router, "check", "GET", "/check", a.check)
	addRoute(router, "track", "GET", "/track/{track:[0-9]+}", a.track)
	addRoute(router, "sector", "GET",
		"/track/{track:[0-9]+}/sector/{sector:[0-9]+}", a.sector)
	addRoute(router, "alloc", "PUT",
		"/track/{track:[0-9]+}/sector/{sector:[0-9]+}", a.setSector)
	addRoute(router, "next", "PUT", "/track/{track:[0-9]+}/next", a.next)

	return router
}

//
func addRoute(r *mux.Router, name, method, pattern string,
	handler http.HandlerFunc) {
	r.Methods(method).
		Path(pattern).
		Name(name).
		Handler(requestLogger(handler, name))
}

//
func requestLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"method": r.Method,
			"path":   r.RequestURI,
		}).Debugf("API BEGIN | %s", name)

		start := time.Now()
		inner.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"path":     r.RequestURI,
			"duration": time.Since(start),
		}).Debugf("API END   | %s", name)
	})
}

//
func (a *api) status(w http.ResponseWriter, req *http.Request) {

	a.lock.Lock()
	defer a.lock.Unlock()

	free, err := a.store.TotalFree()
	if handleError(err, w) {
		return
	}

	g := a.store.Geometry()
	stat := &Status{
		Tracks:     g.MaxTrack,
		DirTrack:   g.DirTrack,
		Sectors:    g.SectorCount(),
		Free:       free,
		Consistent: true,
	}

	if err := a.store.Check(); err != nil {
		if !errors.Is(err, bam.ErrConsistency) {
			handleError(err, w)
			return
		}
		stat.Consistent = false
		stat.Problem = err.Error()
	}

	if wantsJSON(req) {
		sendJSONReply(stat, http.StatusOK, w)
	} else {
		sendReply([]byte(stat.String()), http.StatusOK, w)
	}
}

//
func (a *api) emit(w http.ResponseWriter, req *http.Request) {

	a.lock.Lock()
	defer a.lock.Unlock()

	if wantsJSON(req) {
		var list []*Track
		it := a.store.Entries(isFlagSet(req, "all"))
		for it.Next() {
			list = append(list, newTrack(it.Entry()))
		}
		if handleError(it.Err(), w) {
			return
		}
		sendJSONReply(list, http.StatusOK, w)
		return
	}

	var sb strings.Builder
	if handleError(a.store.Emit(&sb, isFlagSet(req, "all")), w) {
		return
	}
	sendReply([]byte(sb.String()), http.StatusOK, w)
}

//
func (a *api) check(w http.ResponseWriter, req *http.Request) {

	a.lock.Lock()
	defer a.lock.Unlock()

	if handleError(a.store.Check(), w) {
		return
	}
	sendReply([]byte("BAM is consistent"), http.StatusOK, w)
}

//
func (a *api) track(w http.ResponseWriter, req *http.Request) {

	track, ok := getIntVar(w, req, "track")
	if !ok {
		return
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	e, err := a.store.Entry(track)
	if handleError(err, w) {
		return
	}

	t := newTrack(e)
	if wantsJSON(req) {
		sendJSONReply(t, http.StatusOK, w)
	} else {
		sendReply([]byte(t.String()), http.StatusOK, w)
	}
}

//
func (a *api) sector(w http.ResponseWriter, req *http.Request) {

	track, sector, ok := getTrackSector(w, req)
	if !ok {
		return
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	used, err := a.store.IsAllocated(track, sector)
	if handleError(err, w) {
		return
	}

	state := StateFree
	if used {
		state = StateUsed
	}
	sendReply([]byte(state), http.StatusOK, w)
}

// setSector allocates or frees a sector, depending on the state argument
func (a *api) setSector(w http.ResponseWriter, req *http.Request) {

	track, sector, ok := getTrackSector(w, req)
	if !ok {
		return
	}

	state, err := getArg(req, "state")
	if handleStatus(err, http.StatusUnprocessableEntity, w) {
		return
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	switch state {
	case StateUsed:
		err = a.store.SetAllocated(track, sector)
	case StateFree:
		err = a.store.SetFree(track, sector)
	default:
		handleStatus(fmt.Errorf("invalid state '%s', use '%s' or '%s'",
			state, StateUsed, StateFree), http.StatusUnprocessableEntity, w)
		return
	}

	if handleError(err, w) {
		return
	}

	sendReply([]byte(fmt.Sprintf("sector %d/%d %s", track, sector, state)),
		http.StatusOK, w)
}

//
func (a *api) next(w http.ResponseWriter, req *http.Request) {

	track, ok := getIntVar(w, req, "track")
	if !ok {
		return
	}

	start := 0
	if arg, _ := getArg(req, "start"); arg != "" {
		var err error
		if start, err = strconv.Atoi(arg); handleStatus(
			err, http.StatusUnprocessableEntity, w) {
			return
		}
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	sector, err := a.store.AllocateNext(track, start)
	if handleError(err, w) {
		return
	}

	sendReply([]byte(strconv.Itoa(sector)), http.StatusOK, w)
}

//
func getTrackSector(w http.ResponseWriter, req *http.Request) (int, int, bool) {
	track, ok := getIntVar(w, req, "track")
	if !ok {
		return -1, -1, false
	}
	sector, ok := getIntVar(w, req, "sector")
	if !ok {
		return -1, -1, false
	}
	return track, sector, true
}

//
func getIntVar(w http.ResponseWriter, req *http.Request, name string) (int, bool) {
	ret, err := strconv.Atoi(mux.Vars(req)[name])
	if handleStatus(err, http.StatusUnprocessableEntity, w) {
		return -1, false
	}
	return ret, true
}

//
func isFlagSet(req *http.Request, flag string) bool {
	arg, _ := getArg(req, flag)
	return arg == "true"
}

//
func getArg(req *http.Request, arg string) (string, error) {
	ret := req.URL.Query().Get(arg)
	if ret != "" {
		return url.QueryUnescape(ret)
	}
	return ret, nil
}

//
func setHeaders(h http.Header, json bool) {
	if json {
		h.Set("Content-Type", "application/json; charset=UTF-8")
	} else {
		h.Set("Content-Type", "text/plain; charset=UTF-8")
	}
}

// statusFor maps BAM errors to HTTP status codes
func statusFor(e error) int {
	switch {
	case errors.Is(e, bam.ErrInvalidArgument):
		return http.StatusUnprocessableEntity
	case errors.Is(e, bam.ErrAlreadyAllocated), errors.Is(e, bam.ErrAlreadyFree):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

//
func handleError(e error, w http.ResponseWriter) bool {
	return handleStatus(e, statusFor(e), w)
}

//
func handleStatus(e error, statusCode int, w http.ResponseWriter) bool {

	if e == nil {
		return false
	}

	log.Errorf("%v", e)

	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(fmt.Sprintf("%v\n", e))); err != nil {
		log.Errorf("problem writing error: %v", err)
	}

	return true
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := fmt.Fprintf(w, "%s\n", body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), true)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem writing reply: %v", err)
	}
}

//
func wantsJSON(req *http.Request) bool {
	return strings.HasPrefix(req.Header.Get("Accept"), "application/json") ||
		req.Header.Get("Content-Type") == "application/json"
}
