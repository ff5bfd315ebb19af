package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type CommandArgs struct {
	commandName string
	params      map[string]string
}

// NewCommandArgs takes the first bare word as the command and "-key value"
// pairs as parameters. A trailing "-key" with no value is a boolean switch.
func NewCommandArgs(args []string) *CommandArgs {
	var cmdName = ""
	var flags = make(map[string]string)
	for i := 1; i < len(args); i++ {
		var arg = args[i]
		if strings.HasPrefix(arg, "-") {
			var k = strings.TrimPrefix(arg, "-")
			if i < len(args)-1 && isValue(args[i+1]) {
				flags[k] = args[i+1]
				i++
			} else {
				flags[k] = "true"
			}
		} else if cmdName == "" {
			cmdName = arg
		}
	}
	return &CommandArgs{
		commandName: cmdName,
		params:      flags,
	}
}

func isValue(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return true
	}
	var _, err = strconv.ParseFloat(arg, 64)
	return err == nil
}

func (ca *CommandArgs) CommandName() string {
	return ca.commandName
}

func (ca *CommandArgs) GetString(name string, defaultVal string) string {
	var val, ok = ca.params[name]
	if !ok {
		return defaultVal
	}
	return val
}

func (ca *CommandArgs) GetInt(name string, defaultVal int) int {
	var val, ok = ca.params[name]
	if !ok {
		return defaultVal
	}
	var v, err = strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return v
}

func (ca *CommandArgs) GetFloat(name string, defaultVal float64) float64 {
	var val, ok = ca.params[name]
	if !ok {
		return defaultVal
	}
	var v, err = strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func (ca *CommandArgs) GetBool(name string, defaultVal bool) bool {
	var val, ok = ca.params[name]
	if !ok {
		return defaultVal
	}
	var v, err = strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return v
}

type CommandHandler struct {
	items map[string]func() error
}

func NewCommandHandler() *CommandHandler {
	return &CommandHandler{
		items: make(map[string]func() error),
	}
}

func (ch *CommandHandler) Add(name string, handler func() error) {
	ch.items[name] = handler
}

func (ch *CommandHandler) Execute(commandName string) error {
	handler, found := ch.items[commandName]
	if !found {
		return errors.Errorf("command not found %v", commandName)
	}
	return handler()
}
