package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"rollbarreporter/cmd/replay"
	"rollbarreporter/src/app"
	"rollbarreporter/src/config"
	"rollbarreporter/src/frame"
	"rollbarreporter/src/level"
	"rollbarreporter/src/rollbar"
	"rollbarreporter/src/server"
	"rollbarreporter/src/status"
)

var Version string

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "rollbar"
	cliApp.Usage = "Send reports to Rollbar from the command line"
	cliApp.Version = Version

	cliApp.Commands = []cli.Command{
		messageCMD,
		errorCMD,
		errorMessageCMD,
		panicCMD,
		replayCMD,
		serveCMD,
	}

	if err := cliApp.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	levelFlag = cli.StringFlag{
		Name:  "level",
		Usage: "report level: critical, error, warning, info or debug",
	}
	waitFlag = cli.DurationFlag{
		Name:  "wait",
		Value: 10 * time.Second,
		Usage: "how long to wait for the delivery outcome",
	}

	messageCMD = cli.Command{
		Name:        "message",
		Usage:       "send a message report",
		Action:      messageAction,
		ArgsUsage:   "<text>",
		Flags:       []cli.Flag{levelFlag, waitFlag},
		Description: `Send a plain message, INFO unless --level says otherwise`,
	}
	errorCMD = cli.Command{
		Name:        "error",
		Usage:       "parse an integer and report the failure",
		Action:      errorAction,
		ArgsUsage:   "<text>",
		Flags:       []cli.Flag{levelFlag, waitFlag},
		Description: `Report the error returned by strconv.Atoi for the argument`,
	}
	errorMessageCMD = cli.Command{
		Name:        "error-message",
		Usage:       "send an error report from text",
		Action:      errorMessageAction,
		ArgsUsage:   "<text>",
		Flags:       []cli.Flag{levelFlag, waitFlag},
		Description: `Send the argument as an error report with the current stack`,
	}
	panicCMD = cli.Command{
		Name:        "panic",
		Usage:       "divide by zero with panic reporting installed",
		Action:      panicAction,
		Flags:       []cli.Flag{levelFlag, waitFlag},
		Description: `Install the panic handler and crash; the report is sent before the process dies`,
	}
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the HTTP server with panic reporting",
		Action:      serveAction,
		Flags:       []cli.Flag{},
		Description: `Serve /healthcheck on PORT; handler panics are reported at ROLLBAR_PANIC_LEVEL`,
	}
	replayCMD = cli.Command{
		Name:        "replay",
		Usage:       "resend reports kept in the outbox",
		Action:      replayAction,
		Flags:       []cli.Flag{cli.IntFlag{Name: "limit", Value: 100, Usage: "maximum reports to resend"}},
		Description: `Resend undelivered reports stored in OUTBOX_DSN`,
	}
)

func setup() (*app.Reporter, error) {
	r, err := app.Setup(config.GetConfig())
	if err != nil {
		logrus.WithError(err).Error("Setting up reporter")
		return nil, err
	}
	return r, nil
}

func wait(c *cli.Context, d *rollbar.Delivery) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("wait"))
	defer cancel()

	st, err := d.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for delivery: %w", err)
	}
	return printStatus(st)
}

func printStatus(st *status.ResponseStatus) error {
	if st == nil {
		return errors.New("report was not delivered")
	}
	if !st.IsSuccess() {
		return errors.New(st.String())
	}
	fmt.Println(st.Description())
	return nil
}

func messageAction(c *cli.Context) error {
	r, err := setup()
	if err != nil {
		return err
	}

	b := r.BuildReport().FromMessage(c.Args().First())
	if lvl := c.String("level"); lvl != "" {
		b.WithLevelText(lvl)
	}
	return wait(c, b.Send())
}

func errorAction(c *cli.Context) error {
	r, err := setup()
	if err != nil {
		return err
	}

	n, parseErr := strconv.Atoi(c.Args().First())
	if parseErr == nil {
		fmt.Printf("%d parsed fine, nothing to report\n", n)
		return nil
	}

	b := r.BuildReport().
		FromError(parseErr).
		WithBacktrace(frame.NewBacktrace()).
		WithFrame(frame.New().WithFunctionName("main.errorAction").Build())
	if lvl := c.String("level"); lvl != "" {
		b.WithLevelText(lvl)
	}
	return wait(c, b.Send())
}

func errorMessageAction(c *cli.Context) error {
	r, err := setup()
	if err != nil {
		return err
	}

	b := r.BuildReport().
		FromErrorMessage(c.Args().First()).
		WithFrame(frame.New().WithFunctionName("main.errorMessageAction").Build()).
		WithBacktrace(frame.NewBacktrace())
	if lvl := c.String("level"); lvl != "" {
		b.WithLevelText(lvl)
	}
	return wait(c, b.Send())
}

func panicAction(c *cli.Context) error {
	r, err := setup()
	if err != nil {
		return err
	}

	opts := r.PanicOptions(rollbar.WithPanicWait(c.Duration("wait")))
	if lvl := c.String("level"); lvl != "" {
		opts = append(opts, rollbar.WithPanicLevel(level.Parse(lvl)))
	}
	restore := rollbar.ReportPanics(r.Client, opts...)
	defer restore()

	defer rollbar.ReportPanic()
	zero, _ := strconv.Atoi("0")
	fmt.Println(42 / zero)
	return nil
}

func replayAction(c *cli.Context) error {
	r, err := setup()
	if err != nil {
		return err
	}
	return (&replay.Replay{Reporter: r, Limit: c.Int("limit")}).Start()
}

func serveAction(_ *cli.Context) error {
	r, err := setup()
	if err != nil {
		return err
	}

	logrus.WithField("cmd", "serve").Info("Starting server CMD")
	rollbar.InstallPanicHandler(r.Client, r.PanicOptions(rollbar.WithPanicWait(5*time.Second))...)
	server.StartServer(r.Config.Port, serveHandler(r))
	return nil
}

func serveHandler(r *app.Reporter) http.Handler {
	return server.NewRouter(r.Client, r.Strategy, r.Config.PanicLevel)
}
