// Command algo-viz renders a terminal bar-graph visualization of a wav
// file's spectrum, paced at the configured frame rate.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-viz/viz"
	"github.com/cwbudde/algo-viz/wavio"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Version bool   `short:"v" help:"Show version information"`
	Config  string `short:"c" type:"path" help:"Path to YAML config file (optional)"`
	Debug   bool   `help:"Enable per-frame timing logs"`
	File    string `arg:"" name:"file" help:"Wav file to visualize" type:"existingfile"`
}

var barGlyphs = []rune(" ▁▂▃▄▅▆▇█")

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("algo-viz"),
		kong.Description("Terminal spectrum visualizer for wav files"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if cli.Version {
		fmt.Println("algo-viz", version)
		os.Exit(0)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cli.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(cli, log); err != nil {
		log.Fatal(err)
	}
}

func run(cli *CLI, log *logrus.Logger) error {
	cfg, err := loadConfig(cli, log)
	if err != nil {
		return err
	}

	file, err := wavio.Open(cli.File)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":     cli.File,
		"rate":     file.SampleRate(),
		"channels": file.Channels(),
		"samples":  file.NumSamples(),
	}).Info("loaded")

	bars, err := viz.Build(file.Floats(), cfg, log)
	if err != nil {
		return err
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	var line strings.Builder
	for range ticker.C {
		frame, err := bars.NextFrame()
		if err != nil {
			return err
		}
		if frame == nil {
			fmt.Println()
			return nil
		}

		line.Reset()
		for _, v := range frame {
			line.WriteRune(glyph(v, cfg.Levels))
		}
		fmt.Printf("\r%s", style.Render(line.String()))
	}
	return nil
}

// glyph maps a quantized bar value in 0..levels to a block character.
func glyph(v float64, levels int) rune {
	i := int(v) * (len(barGlyphs) - 1) / levels
	if i < 0 {
		i = 0
	}
	if i >= len(barGlyphs) {
		i = len(barGlyphs) - 1
	}
	return barGlyphs[i]
}

func loadConfig(cli *CLI, log *logrus.Logger) (viz.Config, error) {
	if cli.Config != "" {
		return viz.LoadConfig(cli.Config)
	}
	if path, ok := viz.FindConfig("."); ok {
		log.WithField("path", path).Info("using config")
		return viz.LoadConfig(path)
	}
	return viz.DefaultConfig(), nil
}
