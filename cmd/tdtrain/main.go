package main

import (
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var args = NewCommandArgs(os.Args)
	initLogger(args.GetString("loglevel", "info"))

	var err = run(args)
	if err != nil {
		log.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

func initLogger(level string) {
	var lvl, err = zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().
		Timestamp().
		Caller().
		Logger()
}

func run(args *CommandArgs) error {
	var (
		dataPath = args.GetString("data", "./data")
		threads  = args.GetInt("threads", runtime.NumCPU())
	)

	var env = &environment{
		args:     args,
		dataPath: mapPath(dataPath),
		threads:  threads,
		report:   newReporter(os.Stdout),
	}

	var handler = NewCommandHandler()
	handler.Add("pretrain", env.pretrain)
	handler.Add("td", env.td)
	handler.Add("distill", env.distill)
	handler.Add("eval", env.eval)
	handler.Add("bench", env.bench)
	return handler.Execute(args.CommandName())
}
