package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/ghetzel/cli"
	scrollfriend "github.com/ghetzel/go-scrollfriend"
	"github.com/ghetzel/go-scrollfriend/browser"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/stringutil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

func main() {
	app := cli.NewApp()
	app.Name = `scrollfriend`
	app.Usage = scrollfriend.Slogan
	app.Version = scrollfriend.Version
	app.EnableBashCompletion = true
	app.ArgsUsage = `[FILENAME|-]`

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   `log-level, L`,
			Usage:  `Level of log output verbosity`,
			Value:  `info`,
			EnvVar: `LOGLEVEL`,
		},
		cli.BoolFlag{
			Name:   `debug, D`,
			Usage:  `Whether to open the browser in a non-headless mode for debugging purposes.`,
			EnvVar: `SCROLLFRIEND_DEBUG`,
		},
		cli.BoolFlag{
			Name:  `interactive, I`,
			Usage: `Start an interactive Friendscript shell.`,
		},
		cli.BoolFlag{
			Name:   `server, S`,
			Usage:  `Whether to run the HTTP command server`,
			EnvVar: `SCROLLFRIEND_SERVER`,
		},
		cli.StringFlag{
			Name:   `address, a`,
			Usage:  `If running the HTTP command server, this specifies the [address]:port to listen on.`,
			Value:  `:19222`,
			EnvVar: `SCROLLFRIEND_SERVER_ADDR`,
		},
		cli.BoolFlag{
			Name:  `print-vars, P`,
			Usage: `Print the final state of all variables upon script completion.`,
		},
		cli.StringSliceFlag{
			Name:  `var, V`,
			Usage: `Set one or more variables ([deeply.nested.]key=value) before executing the script.`,
		},
		cli.IntFlag{
			Name:   `remote-debugging-port, R`,
			Usage:  `Explicitly provide the port number for the DevTools protocol.`,
			EnvVar: `SCROLLFRIEND_REMOTE_DEBUG_PORT`,
		},
		cli.StringFlag{
			Name:   `remote-debugging-address, r`,
			Usage:  `If given, connect to an already-running DevTools instance instead of starting a browser.`,
			EnvVar: `SCROLLFRIEND_REMOTE_DEBUG_ADDR`,
		},
		cli.StringFlag{
			Name:   `url, u`,
			Usage:  `The page to open when the browser starts.`,
			Value:  `about:blank`,
			EnvVar: `SCROLLFRIEND_URL`,
		},
		cli.StringFlag{
			Name:  `execute, e`,
			Usage: `Execute the given Friendscript in the connected session, then exit.`,
		},
	}

	app.Before = func(c *cli.Context) error {
		log.SetLevelString(c.String(`log-level`))
		return nil
	}

	app.Action = func(c *cli.Context) {
		log.Debugf("Starting %s %s", c.App.Name, c.App.Version)

		chrome := browser.NewBrowser()
		chrome.Headless = !c.Bool(`debug`)
		chrome.RemoteDebuggingPort = c.Int(`remote-debugging-port`)
		chrome.RemoteAddress = c.String(`remote-debugging-address`)
		chrome.URL = c.String(`url`)

		if err := chrome.Launch(); err != nil {
			log.Criticalf("could not launch browser: %v", err)
			return
		}

		defer chrome.Stop()

		go handleSignals(func() {
			chrome.Stop()
		})

		env := scrollfriend.NewEnvironment(chrome)

		// pre-populate initial variables
		for _, pair := range c.StringSlice(`var`) {
			k, v := stringutil.SplitPair(pair, `=`)
			env.Set(k, typeutil.Auto(v))
		}

		// an attached browser is already running, so it never saw the URL
		if chrome.RemoteAddress != `` && chrome.URL != `about:blank` {
			if _, err := env.Execute(`go`, chrome.URL, nil); err != nil {
				log.Warningf("could not load %v: %v", chrome.URL, err)
			}
		}

		if err := run(c, env); err != nil {
			log.Critical(err)
		}
	}

	app.Run(os.Args)
}

func run(c *cli.Context, env *scrollfriend.Environment) error {
	if c.Bool(`server`) {
		return scrollfriend.NewServer(env).ListenAndServe(c.String(`address`))
	} else if c.Bool(`interactive`) {
		if scope, err := env.REPL(); err == nil {
			fmt.Println(scope)
			return nil
		} else {
			return fmt.Errorf("runtime error: %v", err)
		}
	}

	var input io.Reader

	if e := c.String(`execute`); e != `` {
		input = strings.NewReader(e)
	} else if c.NArg() > 0 {
		switch filename := c.Args().First(); filename {
		case `-`:
			input = os.Stdin
		default:
			if file, err := os.Open(filename); err == nil {
				defer file.Close()
				log.Debugf("Friendscript being read from file %s", file.Name())
				input = file
			} else {
				return fmt.Errorf("file error: %v", err)
			}
		}
	} else {
		return nil
	}

	if scope, err := env.EvaluateReader(input); err == nil {
		if c.Bool(`print-vars`) {
			fmt.Println(scope)
		}

		return nil
	} else {
		return fmt.Errorf("runtime error: %v", err)
	}
}

func handleSignals(handler func()) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)

	for range signalChan {
		handler()
		break
	}

	os.Exit(0)
}
