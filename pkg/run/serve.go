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

package run

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/cbmbam/pkg/control"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		`serve -i|--image {image file} [-f|--format {d64|d71}]
      [-a|--address {address}]`,
		"BAM API server command",
		`Use the serve command for running the API server on the block availability map
of a disk image. The server keeps the image open and runs requests one after the
other, so no other program should write to the image while it is served.`,
		"", `- Logging can be configured with these environment variables:

  LOG_FORMAT		set to 'json' for JSON logging
  LOG_FORCE_COLORS	set to non-empty for forcing colorized log entries
  LOG_METHODS		set to non-empty for including methods in log
  LOG_LEVEL		panic, fatal, error, warn, info, debug, trace

`+runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Address, "address", "a", "BAMCTL_ADDRESS", ":8564",
		"listen address of API server", false)

	return s
}

//
type Serve struct {
	//
	Runner
	//
	Address string
}

//
func (s *Serve) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	store, img, err := s.openStore(false)
	if err != nil {
		return err
	}
	defer img.Close()

	api := control.NewAPIServer(s.Address, store)
	done := make(chan error, 1)

	go func() {
		done <- api.Serve()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {

	case sig := <-sigs:
		log.WithField("signal", sig).Info("signal received, shutting down")
		if err := api.Stop(); err != nil {
			return err
		}
		err = <-done

	case err = <-done:
	}

	if err != nil {
		log.Errorf("API server closed with error: %v", err)
		return err
	}

	log.Info("API server stopped")
	return img.Sync()
}
