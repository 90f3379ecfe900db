package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/ledchaser/cmd"
	"github.com/smazurov/ledchaser/internal/api"
	"github.com/smazurov/ledchaser/internal/config"
	"github.com/smazurov/ledchaser/internal/events"
	"github.com/smazurov/ledchaser/internal/logging"
	"github.com/smazurov/ledchaser/internal/sequencer"
	"github.com/smazurov/ledchaser/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"/etc/ledchaser/config.toml"`

	// Sequencer settings
	Pin    int    `help:"Pin label used to name the attribute group (led<pin>)" short:"p" default:"17" toml:"led.pin" env:"PIN"`
	Period int    `help:"Blink period in milliseconds (2-10000)" default:"1000" toml:"led.period" env:"PERIOD"`
	Mode   string `help:"Initial mode (corre, izq, der)" short:"m" default:"der" toml:"led.mode" env:"MODE"`

	// Output bank settings
	LEDBackend    string `help:"LED backend (gpiocdev, sysfs, none)" default:"gpiocdev" toml:"led.backend" env:"LED_BACKEND"`
	LEDChip       string `help:"GPIO chip for the gpiocdev backend" default:"gpiochip0" toml:"led.chip" env:"LED_CHIP"`
	LEDLines      string `help:"GPIO line offsets of LED1..LED4, comma separated" default:"5,6,13,19" toml:"led.lines" env:"LED_LINES"`
	LEDSysfsRoot  string `help:"LED class directory for the sysfs backend" default:"/sys/class/leds" toml:"led.sysfs_root" env:"LED_SYSFS_ROOT"`
	LEDSysfsNames string `help:"LED names of LED1..LED4 for the sysfs backend, comma separated" default:"" toml:"led.sysfs_names" env:"LED_SYSFS_NAMES"`

	// Control surface settings
	AttrsEnabled bool   `help:"Export attributes as files" default:"true" toml:"attrs.enabled" env:"ATTRS_ENABLED"`
	AttrsRoot    string `help:"Directory attribute groups are exported under" default:"/run/ledchaser" toml:"attrs.root" env:"ATTRS_ROOT"`
	APISocket    string `help:"Unix socket for the HTTP API" default:"/run/ledchaser/ledchaser.sock" toml:"api.socket" env:"API_SOCKET"`

	// Observability settings
	MetricsEnabled bool `help:"Serve Prometheus metrics at /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Logging settings
	LoggingLevel     string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat    string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingSequencer string `help:"Sequencer logging level" default:"info" toml:"logging.sequencer" env:"LOGGING_SEQUENCER"`
	LoggingLED       string `help:"LED bank logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
	LoggingAttrs     string `help:"Attribute logging level" default:"info" toml:"logging.attrs" env:"LOGGING_ATTRS"`
	LoggingAPI       string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"sequencer": opts.LoggingSequencer,
				"led":       opts.LoggingLED,
				"attrs":     opts.LoggingAttrs,
				"attrfs":    opts.LoggingAttrs,
				"api":       opts.LoggingAPI,
				"http":      opts.LoggingAPI,
			},
		})
		logger := logging.GetLogger("main")

		mode, ok := sequencer.ParseMode(opts.Mode)
		if !ok {
			logger.Warn("Unknown mode, using default", "mode", opts.Mode, "default", sequencer.DefaultMode.String())
			mode = sequencer.DefaultMode
		}
		if !sequencer.ValidPeriod(opts.Period) {
			logger.Warn("Period out of range, using default", "period_ms", opts.Period, "default_ms", sequencer.DefaultPeriod)
		}
		ctrl := sequencer.NewControl(mode, opts.Period)

		eventBus := events.New()
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(api.LogEntryEvent(entry))
		})

		d := newDaemon(opts, ctrl, eventBus)

		hooks.OnStart(func() {
			logger.Info("Starting ledchaser",
				"version", version.String(),
				"group", d.group.Name(),
				"mode", ctrl.Mode().String(),
				"period_ms", ctrl.Period(),
				"backend", opts.LEDBackend)

			if err := d.start(); err != nil {
				if errors.Is(err, errStopping) {
					return
				}
				logger.Error("Startup failed", "error", err)
				os.Exit(1)
			}
			logger.Info("ledchaser ready", "group", d.group.Name(), "socket", opts.APISocket)

			// humacli exits as soon as OnStart returns
			d.wait()
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			d.stop()
		})
	})

	cli.Root().Use = "ledchaser"
	cli.Root().Short = "Four-LED chaser with live mode and period control"
	cli.Root().Version = version.String()

	cli.Root().AddCommand(cmd.CreateCtlCmd())
	cli.Root().AddCommand(cmd.CreateChipsCmd())
	cli.Root().AddCommand(cmd.CreateServiceCmd())

	cli.Run()
}
