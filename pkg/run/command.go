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
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//
const (
	prologueHeader = ""
	epilogueHeader = `
Notes:

`
)

/*
	The package initializer sets up logging based on logrus. The following
	environment variables can be used to configure logging:

		LOG_FORMAT		set to `json` for JSON logging
		LOG_FORCE_COLORS	set to non-empty for forcing colorized log entries
		LOG_METHODS		set to non-empty for including methods in log
		LOG_LEVEL		`panic`, `fatal`, `error`, `warn`, `info`, `debug`, `trace`
*/
func init() {

	log.SetOutput(os.Stderr)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else if os.Getenv("LOG_FORCE_COLORS") != "" {
		log.SetFormatter(&log.TextFormatter{ForceColors: true})
	}

	if os.Getenv("LOG_METHODS") != "" {
		log.SetReportCaller(true)
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		l, err := log.ParseLevel(level)
		if err != nil {
			log.Errorf("invalid log level: '%s'; valid levels are: panic, "+
				"fatal, error, warn, info, debug, trace", level)
		} else {
			log.SetLevel(l)
		}
	}
}

//
var (
	UnderTest bool
)

// DieOnError exits the running process if e is not nil. The error gets logged.
func DieOnError(e error) {
	if e != nil {
		fmt.Fprintf(os.Stderr, "%v\n", e)
		if UnderTest {
			panic(e.Error())
		}
		os.Exit(1)
	}
}

// Die exits the running process, while logging the given message.
func Die(msg string, params ...interface{}) {
	DieOnError(fmt.Errorf(msg, params...))
}

//
func GetUserConfirmation(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	var res string
	fmt.Scanln(&res)
	return strings.ToLower(strings.TrimSpace(res)) == "y"
}

/*
	NewCommand creates a base command instance, wrapping a new Cobra command.
	The exec function is invoked when the command's Execute method is called.
*/
func NewCommand(use, short, long, helpPrologue, helpEpilogue string,
	exec func() error) *Command {

	ret := Command{
		cmd: &cobra.Command{
			Use:   use,
			Short: short,
			Long:  long,
			RunE: func(*cobra.Command, []string) error {
				return exec()
			},
			SilenceErrors:         true,
			SilenceUsage:          true,
			DisableFlagsInUseLine: true,
		},
		viper:        viper.New(),
		settings:     map[string]*setting{},
		helpPrologue: helpPrologue,
		helpEpilogue: helpEpilogue,
	}
	ret.helpFunc = ret.cmd.HelpFunc()
	ret.cmd.SetHelpFunc(ret.help)
	return &ret
}

/*
	Command is a wrapper around Cobra & Viper. Each setting can come from a
	command line flag or an environment variable, with the flag taking
	precedence. Settings are bound to plain variables, which get filled in
	by ParseSettings.
*/
type Command struct {
	//
	cmd   *cobra.Command
	viper *viper.Viper
	//
	settings map[string]*setting
	//
	Args []string
	//
	helpPrologue string
	helpEpilogue string
	helpFunc     func(*cobra.Command, []string)
}

//
func (c *Command) help(cmd *cobra.Command, args []string) {
	if c.helpPrologue != "" {
		fmt.Fprintln(cmd.OutOrStdout(), prologueHeader+c.helpPrologue)
	}
	if c.helpFunc != nil {
		c.helpFunc(cmd, args)
	}
	if c.helpEpilogue != "" {
		fmt.Fprintln(cmd.OutOrStdout(), epilogueHeader+c.helpEpilogue)
	} else {
		fmt.Fprintln(cmd.OutOrStdout())
	}
}

/*
	Execute invokes the exec function that was set on this command when it was
	created. The command parses args only, never os.Args, so an empty or nil
	args means no arguments at all.
*/
func (c *Command) Execute(args []string) error {
	// Cobra falls back to os.Args when given nil
	if args == nil {
		args = []string{}
	}
	c.cmd.SetArgs(args)
	return c.cmd.Execute()
}

/*
	AddSetting adds a setting to this command. Target is a pointer to a string,
	int, or bool variable that receives the setting. Flag is the long command
	line flag, short its single letter version, and env the name of an optional
	environment variable. def is the default value, nil meaning the zero value.
	A required setting must not have a default.
*/
func (c *Command) AddSetting(target interface{}, flag, short, env string,
	def interface{}, help string, required bool) {

	if required && def != nil {
		Die("required setting '%s' does not take a default value", flag)
	}

	if env != "" {
		help = fmt.Sprintf("%s (%s)", help, env)
	}

	flags := c.cmd.Flags()

	switch t := target.(type) {
	case *string:
		d, _ := def.(string)
		flags.StringVarP(t, flag, short, d, help)
	case *int:
		d, _ := def.(int)
		flags.IntVarP(t, flag, short, d, help)
	case *bool:
		d, _ := def.(bool)
		flags.BoolVarP(t, flag, short, d, help)
	default:
		Die("setting '%s' is of unsupported type %T", flag, target)
	}

	log.Tracef("add setting: flag=%s, env=%s, type=%T", flag, env, target)

	c.settings[flag] = &setting{
		flag: flag, env: env, required: required, target: target}

	c.viper.BindPFlag(flag, flags.Lookup(flag))
	if env != "" {
		c.viper.BindEnv(flag, env)
	}
}

/*
	ParseSettings fills the variables bound to this command's settings. This
	has to be called at the start of the exec function that was set on this
	command when it was created.
*/
func (c *Command) ParseSettings() error {
	for _, s := range c.settings {
		if err := s.get(c.viper, c.cmd.Flags()); err != nil {
			return err
		}
	}
	c.Args = c.cmd.Flags().Args()
	return nil
}

//
type setting struct {
	flag     string
	env      string
	required bool
	target   interface{}
}

//
func (s *setting) get(v *viper.Viper, flags *pflag.FlagSet) error {

	set := v.IsSet(s.flag)

	// Viper's BindEnv does not fill the target, so we always copy the value
	// over. If it came from the flag, nothing changes.
	switch t := s.target.(type) {
	case *string:
		*t = v.GetString(s.flag)
		set = set && *t != ""
	case *int:
		*t = v.GetInt(s.flag)
	case *bool:
		*t = v.GetBool(s.flag)
	}

	log.Tracef("setting %s, set explicitly: %v", s.flag, set)

	if s.required && !set && !flags.Changed(s.flag) {
		msg := fmt.Sprintf("you need to specify the --%s command line flag",
			s.flag)
		if s.env != "" {
			msg = fmt.Sprintf("%s or the %s environment variable", msg, s.env)
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}
