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
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/cbmbam/pkg/bam"
	"github.com/xelalexv/cbmbam/pkg/format"
	"github.com/xelalexv/cbmbam/pkg/image"
)

//
const runnerHelpEpilogue = `- When a flag can be set via environment variable, the variable name is given
  in parenthesis at the end of the flag explanation. Note however that a flag,
  when specified overrides an environment variable.
- Supported image formats are d64 (1541) and d71 (1571).
`

/*
	NewRunner creates a base runner for commands to use. The parameters are
	passed to the base command wrapped by this runner.
*/
func NewRunner(use, short, long, helpPrologue, helpEpilogue string,
	exec func() error) *Runner {
	return &Runner{
		Command: *NewCommand(
			use, short, long, helpPrologue, helpEpilogue, exec),
		out: os.Stdout,
	}
}

//
type Runner struct {
	//
	Command
	//
	Image  string
	Format string
	//
	out io.Writer
}

//
func (r *Runner) AddBaseSettings() {
	// Implementation Note: This cannot be included in NewRunner, but rather has
	// to be called from the top level command type. Otherwise, the settings
	// would be bound to a copy of the runner.
	r.AddSetting(&r.Image, "image", "i", "BAMCTL_IMAGE", nil,
		"disk image file", true)
	r.AddSetting(&r.Format, "format", "f", "BAMCTL_FORMAT", "d64",
		"disk image format", false)
}

// openStore opens the configured image for writing and creates a BAM store on
// it. The returned image needs to be closed by the caller.
func (r *Runner) openStore(create bool) (*bam.Store, *image.File, error) {

	f, err := format.NewFormat(r.Format)
	if err != nil {
		return nil, nil, err
	}

	img, err := image.OpenFile(r.Image, f, create)
	if err != nil {
		return nil, nil, err
	}

	store, err := bam.NewStore(f.Geometry, f.Layout, img)
	if err != nil {
		img.Close()
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"image":  r.Image,
		"format": f.Name,
	}).Debug("BAM store ready")

	return store, img, nil
}

// loadStore reads the configured image into memory and creates a BAM store on
// that copy. Nothing gets written back to the image file.
func (r *Runner) loadStore() (*bam.Store, error) {

	f, err := format.NewFormat(r.Format)
	if err != nil {
		return nil, err
	}

	in, err := os.Open(r.Image)
	if err != nil {
		return nil, fmt.Errorf("cannot open image %s: %v", r.Image, err)
	}
	defer in.Close()

	img, err := image.ReadMemory(f, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", r.Image, err)
	}

	log.WithFields(log.Fields{
		"image":  r.Image,
		"format": f.Name,
	}).Debug("BAM loaded")

	return bam.NewStore(f.Geometry, f.Layout, img)
}

//
func (r *Runner) printf(format string, params ...interface{}) {
	fmt.Fprintf(r.out, format, params...)
}
