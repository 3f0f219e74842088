// Package main provides the CLI entry point for videoread.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/videoread/pkg/adapters/filesink"
	"github.com/user/videoread/pkg/adapters/ggrenderer"
	"github.com/user/videoread/pkg/adapters/logger"
	"github.com/user/videoread/pkg/adapters/mp4engine"
	"github.com/user/videoread/pkg/adapters/nullsink"
	"github.com/user/videoread/pkg/adapters/osfilesystem"
	"github.com/user/videoread/pkg/config"
	"github.com/user/videoread/pkg/ports"
	"github.com/user/videoread/pkg/sheet"
	"github.com/user/videoread/pkg/videoread"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Config     string `short:"C" help:"YAML configuration file path."`
	LogLevel   string `short:"l" default:"info" enum:"debug,info,warn,error,quiet" help:"Log level (debug, info, warn, error, quiet)."`
	Quiet      bool   `short:"Q" help:"Suppress all log output."`
	FFmpegPath string `help:"Path to ffmpeg binary for H.264 decoding."`

	Info    InfoCmd    `cmd:"" help:"Show container metadata."`
	Frames  FramesCmd  `cmd:"" help:"Extract video frames as PNG images."`
	Audio   AudioCmd   `cmd:"" help:"Extract the audio stream as raw PCM."`
	Sheet   SheetCmd   `cmd:"" help:"Compose a contact sheet from frames."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// InfoCmd shows container metadata.
type InfoCmd struct {
	File string `arg:"" help:"Container file path."`
}

// FramesCmd extracts video frames.
type FramesCmd struct {
	File   string `arg:"" help:"Container file path."`
	Output string `short:"o" default:"./out" help:"Output directory."`

	Width     int     `short:"W" help:"Frame width (0 = native)."`
	Height    int     `short:"H" help:"Frame height (0 = native)."`
	Gray      bool    `short:"g" help:"Extract 8-bit grayscale frames."`
	Raw       bool    `help:"Save packed pixel bytes instead of PNG."`
	Start     float64 `short:"s" help:"Seek to this time (seconds) before reading."`
	Exact     bool    `help:"Seek to the exact time instead of the preceding keyframe."`
	MaxFrames int     `short:"n" help:"Stop after this many frames (0 = all)."`
	Step      int     `default:"1" help:"Keep every Nth frame."`
	DryRun    bool    `help:"Decode without writing output."`
}

// AudioCmd extracts the audio stream.
type AudioCmd struct {
	File   string `arg:"" help:"Container file path."`
	Output string `short:"o" default:"./out" help:"Output directory."`
}

// SheetCmd composes a contact sheet.
type SheetCmd struct {
	File   string `arg:"" help:"Container file path."`
	Output string `short:"o" default:"./out" help:"Output directory."`
	Count  int    `short:"n" default:"20" help:"Number of frames to sample."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("videoread"),
		kong.Description("Read video containers frame by frame: metadata, frames, audio, contact sheets."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

// newLogger builds the logger selected by the global flags.
func (cli *CLI) newLogger() ports.Logger {
	if cli.Quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(cli.LogLevel))
}

// loadConfig loads the YAML config file when given, defaults otherwise.
func (cli *CLI) loadConfig() (config.Config, error) {
	if cli.Config == "" {
		return config.Defaults(), nil
	}
	return config.LoadFromFile(cli.Config)
}

// newReader wires the MP4 engine into a Reader.
func (cli *CLI) newReader(log ports.Logger) *videoread.Reader {
	engine := mp4engine.New(mp4engine.Options{FFmpegPath: cli.FFmpegPath})
	return videoread.New(engine, videoread.WithLogger(log))
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()
	return ctx, cancel
}

// Run executes the info command.
func (cmd *InfoCmd) Run(cli *CLI) error {
	log := cli.newLogger()
	reader := cli.newReader(log)
	defer reader.Dispose()

	if err := reader.Open(cmd.File); err != nil {
		return err
	}

	width, _ := reader.Width()
	height, _ := reader.Height()
	frameRate, _ := reader.FrameRate()
	frameCount, _ := reader.FrameCount()
	codecName, _ := reader.CodecName()

	fmt.Printf("%s:\n", cmd.File)
	fmt.Printf("  %s: %dx%d\n", l10n.T("Size"), width, height)
	fmt.Printf("  %s: %s\n", l10n.T("Codec"), codecName)
	fmt.Printf("  %s: %d fps\n", l10n.T("Frame rate"), frameRate)
	fmt.Printf("  %s: %d\n", l10n.T("Frame count"), frameCount)
	return reader.Close()
}

// Run executes the frames command.
func (cmd *FramesCmd) Run(cli *CLI) error {
	log := cli.newLogger()
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	cmd.applyConfig(cfg)

	reader := cli.newReader(log)
	defer reader.Dispose()

	if err := reader.Open(cmd.File); err != nil {
		log.Error("Failed to open %s: %s", cmd.File, err)
		return err
	}
	defer reader.Close()

	var sink ports.FrameSink = nullsink.New()
	if !cmd.DryRun {
		sink = filesink.New(cmd.Output, osfilesystem.New(), ggrenderer.New())
	}

	if cmd.Start > 0 {
		if _, err := reader.Seek(cmd.Start, !cmd.Exact); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	log.Info("Reading frames from %s", cmd.File)
	saved := 0
	audioBytes := 0
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := cmd.readFrame(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Error("Failed to read frame: %s", err)
			return err
		}
		if cfg.Audio {
			// Drain the audio due up to this frame's time.
			chunk, err := reader.ReadAudioFrame(true)
			if err != nil {
				return err
			}
			if len(chunk) > 0 {
				if err := sink.SaveAudio(chunk); err != nil {
					log.Error("Failed to write output: %s", err)
					return err
				}
				audioBytes += len(chunk)
			}
		}
		if cmd.Step > 1 && i%cmd.Step != 0 {
			continue
		}
		if sink.Enabled() {
			if cmd.Raw {
				err = sink.SaveRawFrame(saved, frame.Pix)
			} else {
				err = sink.SaveFrame(saved, frame.Image())
			}
			if err != nil {
				log.Error("Failed to write output: %s", err)
				return err
			}
		}
		saved++
		if cmd.MaxFrames > 0 && saved >= cmd.MaxFrames {
			break
		}
	}

	log.Info("Extracted %d frames to %s", saved, cmd.Output)
	if audioBytes > 0 {
		log.Info("Drained %d bytes of PCM audio", audioBytes)
	}
	return nil
}

// applyConfig fills flag zero values from the config file.
func (cmd *FramesCmd) applyConfig(cfg config.Config) {
	if cmd.Width == 0 {
		cmd.Width = cfg.Width
	}
	if cmd.Height == 0 {
		cmd.Height = cfg.Height
	}
	if !cmd.Gray {
		cmd.Gray = cfg.Gray
	}
	if cmd.Start == 0 {
		cmd.Start = cfg.Start
	}
	if !cmd.Exact {
		cmd.Exact = cfg.ExactSeek
	}
	if cmd.MaxFrames == 0 {
		cmd.MaxFrames = cfg.MaxFrames
	}
	if cmd.Step <= 1 && cfg.Step > 1 {
		cmd.Step = cfg.Step
	}
}

// readFrame dispatches to the right Reader call for the flags.
func (cmd *FramesCmd) readFrame(reader *videoread.Reader) (*videoread.Frame, error) {
	sized := cmd.Width > 0 && cmd.Height > 0
	switch {
	case cmd.Gray && sized:
		return reader.ReadVideoFrameGraySized(cmd.Width, cmd.Height)
	case cmd.Gray:
		return reader.ReadVideoFrameGray()
	case sized:
		return reader.ReadVideoFrameSized(cmd.Width, cmd.Height)
	default:
		return reader.ReadVideoFrame()
	}
}

// Run executes the audio command.
func (cmd *AudioCmd) Run(cli *CLI) error {
	log := cli.newLogger()
	reader := cli.newReader(log)
	defer reader.Dispose()

	if err := reader.Open(cmd.File); err != nil {
		log.Error("Failed to open %s: %s", cmd.File, err)
		return err
	}
	defer reader.Close()

	fs := osfilesystem.New()
	sink := filesink.New(cmd.Output, fs, ggrenderer.New())

	total := 0
	for {
		chunk, err := reader.ReadAudioFrame(false)
		if err != nil {
			return err
		}
		if len(chunk) == 0 {
			break
		}
		if err := sink.SaveAudio(chunk); err != nil {
			log.Error("Failed to write output: %s", err)
			return err
		}
		total += len(chunk)
	}

	if total == 0 {
		return fmt.Errorf("no audio in %s", cmd.File)
	}

	log.Info("Drained %d bytes of PCM audio", total)
	log.Info("Audio saved to %s", cmd.Output)
	return nil
}

// Run executes the sheet command.
func (cmd *SheetCmd) Run(cli *CLI) error {
	log := cli.newLogger()
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}

	reader := cli.newReader(log)
	defer reader.Dispose()

	if err := reader.Open(cmd.File); err != nil {
		log.Error("Failed to open %s: %s", cmd.File, err)
		return err
	}
	defer reader.Close()

	frameCount, _ := reader.FrameCount()
	frameRate, _ := reader.FrameRate()
	if frameRate <= 0 {
		return fmt.Errorf("no video stream in %s", cmd.File)
	}
	duration := float64(frameCount) / float64(frameRate)

	ctx, cancel := signalContext(log)
	defer cancel()

	var thumbs []sheet.Thumb
	for i := 0; i < cmd.Count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := duration * float64(i) / float64(cmd.Count)
		if _, err := reader.Seek(t, true); err != nil {
			return err
		}
		frame, err := reader.ReadVideoFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Error("Failed to read frame: %s", err)
			return err
		}
		thumbs = append(thumbs, sheet.Thumb{Image: frame.Image(), Time: frame.Time})
	}

	renderer := ggrenderer.New()
	composer := sheet.New(renderer, log, cfg.ToSheetOptions())
	img, err := composer.Compose(ctx, thumbs)
	if err != nil {
		return err
	}

	fs := osfilesystem.New()
	sink := filesink.New(cmd.Output, fs, renderer)
	if err := sink.SaveSheet(img); err != nil {
		log.Error("Failed to write output: %s", err)
		return err
	}

	log.Info("Contact sheet saved to %s", cmd.Output)
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run(cli *CLI) error {
	fmt.Println(l10n.F("videoread version %s", version))
	return nil
}
