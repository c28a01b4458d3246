// cmd/main.go

package main

import (
	"os"
	"sync"

	"AveBench/pkg/utils"
	"AveBench/pkg/version"

	"github.com/google/gops/agent"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var logger = utils.GetLogger("avebench")
var debugAgentOnce sync.Once

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"debug", "v"},
			Usage:   "enable debug log",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only warning and errors",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "enable trace log",
		},
		&cli.StringFlag{
			Name:  "log",
			Usage: "path of log file instead of stderr",
		},
		&cli.BoolFlag{
			Name:  "no-agent",
			Usage: "disable the gops agent",
		},
	}
}

func setup(ctx *cli.Context) {
	if ctx.Bool("trace") {
		utils.SetLogLevel(logrus.TraceLevel)
	} else if ctx.Bool("verbose") {
		utils.SetLogLevel(logrus.DebugLevel)
	} else if ctx.Bool("quiet") {
		utils.SetLogLevel(logrus.WarnLevel)
	} else {
		utils.SetLogLevel(logrus.InfoLevel)
	}
	if name := ctx.String("log"); name != "" {
		utils.SetOutFile(name)
	}
	if !ctx.Bool("no-agent") {
		debugAgentOnce.Do(func() {
			go func() {
				if err := agent.Listen(agent.Options{}); err != nil {
					logger.Debugf("gops agent: %s", err)
				}
			}()
		})
	}
}

func main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name: "version", Aliases: []string{"V"},
		Usage: "print version only",
	}
	app := &cli.App{
		Name:                 "avebench",
		Usage:                "measure raw storage read throughput",
		Version:              version.Version(),
		HideHelpCommand:      true,
		EnableBashCompletion: true,
		Flags:                globalFlags(),
		Commands: []*cli.Command{
			readFlags(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("%s", err)
	}
}
