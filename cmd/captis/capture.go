package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/klarity-app/captis/internal/encoding"
	"github.com/klarity-app/captis/internal/rdisplay"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var captureCmd = &cobra.Command{
	Use:   "capture [index...]",
	Short: "Capture displays to image files",
	Long: `Capture one or more displays and write each frame to <out>/<prefix>-<index>.<ext>.
Without arguments every display is captured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		primary, _ := cmd.Flags().GetBool("primary")
		repeat, _ := cmd.Flags().GetInt("repeat")
		if repeat < 1 {
			return fmt.Errorf("--repeat must be at least 1, got %d", repeat)
		}
		if primary && (all || len(args) > 0) {
			return errors.New("--primary can't be combined with --all or explicit indices")
		}

		enc, err := encoding.NewEncoder(cfg.Output.Format, encoding.Options{Quality: cfg.Output.Quality})
		if err != nil {
			return err
		}

		capturer, err := newCapturer()
		if err != nil {
			return err
		}
		defer capturer.Close()

		indices, err := targetIndices(capturer, args, all, primary)
		if err != nil {
			return err
		}

		batch := uuid.NewString()
		logger.Debug("capture batch",
			zap.String("batch_id", batch),
			zap.Ints("displays", indices),
			zap.Int("repeat", repeat))

		if all && repeat == 1 {
			images, err := capturer.CaptureAll()
			if err != nil {
				return err
			}
			for i, img := range images {
				if err := saveImage(enc, img, i); err != nil {
					return err
				}
			}
			return nil
		}

		for _, index := range indices {
			img, err := captureRepeated(capturer, index, repeat)
			if err != nil {
				return err
			}
			if err := saveImage(enc, img, index); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	flags := captureCmd.Flags()
	flags.Bool("all", false, "Capture every display")
	flags.Bool("primary", false, "Capture only the primary display")
	flags.IntP("repeat", "n", 1, "Capture each display n times and report the timing")
	flags.StringP("out", "o", ".", "Output directory")
	flags.StringP("format", "f", encoding.PNG, "Image format (png, jpeg)")
	flags.IntP("quality", "q", encoding.DefaultQuality, "JPEG quality (1-100)")
	flags.Int("max-width", 0, "Downscale frames wider than this, 0 keeps the native size")
	flags.String("prefix", "capture", "File name prefix")
}

func targetIndices(capturer rdisplay.Capturer, args []string, all, primary bool) ([]int, error) {
	if primary {
		return []int{primaryIndex(capturer)}, nil
	}
	if all || len(args) == 0 {
		indices := make([]int, len(capturer.Displays()))
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}
	indices := make([]int, 0, len(args))
	for _, arg := range args {
		index, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid display index %q", arg)
		}
		indices = append(indices, index)
	}
	return indices, nil
}

// captureRepeated captures display index n times, prints the timing and
// returns the last frame.
func captureRepeated(capturer rdisplay.Capturer, index, n int) (*rdisplay.Image, error) {
	var img *rdisplay.Image
	start := time.Now()
	for i := 0; i < n; i++ {
		frame, err := capturer.Capture(index)
		if err != nil {
			if frame == nil || !errors.Is(err, rdisplay.ErrReleaseFailed) {
				return nil, fmt.Errorf("display %d: %w", index, err)
			}
			logger.Warn("capture succeeded with cleanup error", zap.Int("display", index), zap.Error(err))
		}
		img = frame
	}
	elapsed := time.Since(start)
	if n > 1 {
		fmt.Printf("display %d: %d captures in %v (%v per capture)\n", index, n, elapsed, elapsed/time.Duration(n))
	}
	return img, nil
}

func saveImage(enc encoding.Encoder, img *rdisplay.Image, index int) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(cfg.Output.Dir, fmt.Sprintf("%s-%d.%s", cfg.Output.Prefix, index, enc.Extension()))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := enc.Encode(w, encoding.Fit(img, cfg.Output.MaxWidth)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Info("saved capture",
		zap.String("path", path),
		zap.Int("display", index),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height))
	return nil
}
