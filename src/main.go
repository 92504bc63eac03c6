package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"sparselife/src/config"
	"sparselife/src/universe"
	"sparselife/src/view"
)

var errFinished = errors.New("simulation finished")

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(cfg config.Config) error {
	closeLog, err := setupLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	var stateCh chan universe.Status
	if !cfg.Interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	uo := cfg.UniverseOptions()
	u := universe.NewBaseUniverse(&uo, stateCh)
	for _, t := range cfg.Templates {
		if err := u.AddTemplate(t.Template()); err != nil {
			u.Close()
			return err
		}
	}

	if cfg.Interactive {
		v := view.NewViewTerminal(cfg.RandomSpec())
		u.RegisterViewer(v)
		if err := settle(u, cfg); err != nil {
			u.Close()
			return err
		}
		v.Start()
		u.Close()
		return nil
	}

	co := view.NewConsoleOut(os.Stdout)
	u.RegisterViewer(co)
	if err := settle(u, cfg); err != nil {
		u.Close()
		return err
	}
	return runHeadless(u, co, stateCh)
}

//runHeadless runs the simulation until it is finished or interrupted by a signal
func runHeadless(u universe.Universe, co *view.ConsoleOut, stateCh chan universe.Status) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\"The Life\" game simulation started...\n")
	co.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case st := <-stateCh:
				if st.RunningMode == universe.RunningStateFinished {
					co.Report(st)
					return errFinished
				}
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})
	u.Run()
	err := g.Wait()

	//nobody waits for the statuses anymore, keep the main loop unblocked until it is closed
	go func() {
		for range stateCh {
		}
	}()
	u.Close()
	close(stateCh)

	switch {
	case errors.Is(err, errFinished):
		return nil
	case errors.Is(err, context.Canceled):
		fmt.Println("\nInterrupted")
		co.Report(u.Status())
		return nil
	}
	return err
}

func settle(u universe.Universe, cfg config.Config) error {
	if universe.IsRandom(cfg.Pattern) {
		return u.SettleRandom(cfg.RandomSpec())
	}
	return u.SettleTemplate(cfg.Pattern)
}

//setupLog directs the log to the configured file, the interactive mode discards it by default to keep the screen clean
func setupLog(cfg config.Config) (func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "[setupLog] failed to open log file: %+v", cfg.LogFile)
		}
		log.SetOutput(f)
		return func() { _ = f.Close() }, nil
	}
	if cfg.Interactive {
		log.SetOutput(io.Discard)
	}
	return func() {}, nil
}
