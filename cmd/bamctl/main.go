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

package main

import (
	"fmt"
	"os"

	"github.com/xelalexv/cbmbam/pkg/run"
)

//
var BAMCtlVersion string

//
func synopsis() {
	fmt.Print(`
synopsis: bamctl {map|check|alloc|free|next|init|serve|version} ...

run 'bamctl {action} -h|--help' to see detailed info

`)
}

//
func version() {
	fmt.Printf("\nbamctl %s\n\n", BAMCtlVersion)
}

//
func main() {

	var action string
	var args []string

	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	switch action {

	case "map":
		run.DieOnError(run.NewMap().Execute(args))

	case "check":
		run.DieOnError(run.NewCheck().Execute(args))

	case "alloc":
		run.DieOnError(run.NewAlloc().Execute(args))

	case "free":
		run.DieOnError(run.NewFree().Execute(args))

	case "next":
		run.DieOnError(run.NewNext().Execute(args))

	case "init":
		run.DieOnError(run.NewInit().Execute(args))

	case "serve":
		version()
		run.DieOnError(run.NewServe().Execute(args))

	case "version":
		version()

	case "":
		fallthrough
	case "-h":
		fallthrough
	case "--help":
		synopsis()

	default:
		run.Die("unknown action: %s", action)
	}
}
