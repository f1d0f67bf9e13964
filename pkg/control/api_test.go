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
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/cbmbam/pkg/bam"
	"github.com/xelalexv/cbmbam/pkg/format"
	"github.com/xelalexv/cbmbam/pkg/image"
)

//
func newTestServer(t *testing.T) (*httptest.Server, *bam.Store) {

	f, err := format.NewFormat("d64")
	require.NoError(t, err)

	s, err := bam.NewStore(f.Geometry, f.Layout, image.NewMemory(f))
	require.NoError(t, err)
	require.NoError(t, s.FreeAll())

	a := &api{store: s}
	srv := httptest.NewServer(a.router())
	t.Cleanup(srv.Close)

	return srv, s
}

//
func call(t *testing.T, method, url string, json bool) (int, string) {

	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if json {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, strings.TrimSpace(string(body))
}

func TestStatus(t *testing.T) {
	assert := assert.New(t)
	srv, s := newTestServer(t)

	code, body := call(t, "GET", srv.URL+"/status", true)
	assert.Equal(http.StatusOK, code)

	var stat Status
	assert.NoError(json.Unmarshal([]byte(body), &stat))
	assert.Equal(35, stat.Tracks)
	assert.Equal(683, stat.Sectors)
	assert.Equal(664, stat.Free)
	assert.True(stat.Consistent)

	require.NoError(t, s.SetEntry(3, 0, bam.FullBitmap(21)))
	code, body = call(t, "GET", srv.URL+"/status", false)
	assert.Equal(http.StatusOK, code)
	assert.Contains(body, "643 blocks free")
	assert.Contains(body, "BAM is inconsistent")
}

func TestCheckEndpoint(t *testing.T) {
	assert := assert.New(t)
	srv, s := newTestServer(t)

	code, _ := call(t, "GET", srv.URL+"/check", false)
	assert.Equal(http.StatusOK, code)

	require.NoError(t, s.SetEntry(18, 3, bam.FullBitmap(19)))
	code, body := call(t, "GET", srv.URL+"/check", false)
	assert.Equal(http.StatusInternalServerError, code)
	assert.Contains(body, "track 18")
}

func TestAllocateAndFree(t *testing.T) {
	assert := assert.New(t)
	srv, s := newTestServer(t)

	url := srv.URL + "/track/17/sector/4"

	code, body := call(t, "GET", url, false)
	assert.Equal(http.StatusOK, code)
	assert.Equal(StateFree, body)

	code, _ = call(t, "PUT", url+"?state=used", false)
	assert.Equal(http.StatusOK, code)
	used, err := s.IsAllocated(17, 4)
	assert.NoError(err)
	assert.True(used)

	code, _ = call(t, "PUT", url+"?state=used", false)
	assert.Equal(http.StatusConflict, code)

	code, _ = call(t, "PUT", url+"?state=free", false)
	assert.Equal(http.StatusOK, code)
	code, _ = call(t, "PUT", url+"?state=free", false)
	assert.Equal(http.StatusConflict, code)

	code, _ = call(t, "PUT", url+"?state=gone", false)
	assert.Equal(http.StatusUnprocessableEntity, code)

	code, _ = call(t, "PUT", srv.URL+"/track/17/sector/21?state=used", false)
	assert.Equal(http.StatusUnprocessableEntity, code)

	code, _ = call(t, "GET", srv.URL+"/track/36", false)
	assert.Equal(http.StatusUnprocessableEntity, code)

	assert.NoError(s.Check())
}

func TestTrackAndMap(t *testing.T) {
	assert := assert.New(t)
	srv, s := newTestServer(t)

	require.NoError(t, s.SetAllocated(1, 0))

	code, body := call(t, "GET", srv.URL+"/track/1", true)
	assert.Equal(http.StatusOK, code)
	var tr Track
	assert.NoError(json.Unmarshal([]byte(body), &tr))
	assert.Equal(Track{Track: 1, Free: 20, Bitmap: "011111111111111111111"}, tr)

	code, body = call(t, "GET", srv.URL+"/map", true)
	assert.Equal(http.StatusOK, code)
	var list []Track
	assert.NoError(json.Unmarshal([]byte(body), &list))
	assert.Len(list, 34)

	code, body = call(t, "GET", srv.URL+"/map?all=true", true)
	assert.Equal(http.StatusOK, code)
	assert.NoError(json.Unmarshal([]byte(body), &list))
	assert.Len(list, 35)

	code, body = call(t, "GET", srv.URL+"/map", false)
	assert.Equal(http.StatusOK, code)
	assert.Contains(body, "TRACK  1: |X....................|  20")
	assert.True(strings.HasSuffix(body, "\n663 blocks free"))

	code, body = call(t, "GET", srv.URL+"/map?all=true", false)
	assert.Equal(http.StatusOK, code)
	assert.True(strings.HasSuffix(body, "\n682 blocks free"), "directory track included")
}

func TestNext(t *testing.T) {
	assert := assert.New(t)
	srv, _ := newTestServer(t)

	code, body := call(t, "PUT", srv.URL+"/track/20/next?start=18", false)
	assert.Equal(http.StatusOK, code)
	assert.Equal("18", body)

	code, body = call(t, "PUT", srv.URL+"/track/20/next?start=18", false)
	assert.Equal(http.StatusOK, code)
	assert.Equal("0", body, "wraps around")

	code, _ = call(t, "PUT", srv.URL+"/track/20/next?start=x", false)
	assert.Equal(http.StatusUnprocessableEntity, code)
}

func TestStopBeforeServe(t *testing.T) {
	assert := assert.New(t)
	_, s := newTestServer(t)

	a := NewAPIServer("127.0.0.1:0", s)
	assert.NoError(a.Stop())

	done := make(chan error, 1)
	go func() {
		done <- a.Serve()
	}()

	select {
	case err := <-done:
		assert.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not notice it was stopped")
	}
}
