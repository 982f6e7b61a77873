// Command headless is a thin, UI-less embedder for the emulator core: it
// loads a cartridge, runs it for a fixed number of frames, and dumps the
// final frame to a BMP and the accumulated audio to a WAV. It exists to
// exercise the core's public API (spec.md §6) the way a real frontend
// would, without pulling in any presentation stack.
//
// Grounded on the teacher's cmd/emulator/main.go flag-parsing and
// ROM-loading shape, with the Fyne/SDL UI loop replaced by a fixed frame
// count and file dumps since this core has no display of its own.
package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/sync/errgroup"

	"gosnescore/internal/emulator"
	"gosnescore/internal/ppu"
)

const (
	audioSampleRate = 32000
	samplesPerFrame = audioSampleRate / 60
)

func main() {
	romPath := flag.String("rom", "", "path to a cartridge image")
	frames := flag.Int("frames", 60, "number of frames to run before dumping output")
	framePath := flag.String("frame-out", "frame.bmp", "output path for the final rendered frame")
	audioPath := flag.String("audio-out", "audio.wav", "output path for the accumulated audio")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: headless -rom <path> [-frames N] [-frame-out path.bmp] [-audio-out path.wav]")
		os.Exit(1)
	}

	if err := run(*romPath, *frames, *framePath, *audioPath); err != nil {
		fmt.Fprintf(os.Stderr, "headless: %v\n", err)
		os.Exit(1)
	}
}

func run(romPath string, frames int, framePath, audioPath string) error {
	romData, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("read cartridge: %w", err)
	}

	emu := emulator.New()
	if err := emu.LoadCartridge(romData); err != nil {
		return fmt.Errorf("load cartridge: %w", err)
	}
	emu.Reset()

	var lastFrame []byte
	emu.SetFrameSink(func(frame []byte) { lastFrame = frame })
	emu.Start()

	// Video (frame sink callbacks, synchronous with Run) and audio
	// (pulled through FillAudio independently; the APU writes silence)
	// are produced on different schedules; errgroup supervises the two
	// producers so either side's failure aborts the whole run instead of
	// hanging.
	audio := make([][2]float32, 0, frames*samplesPerFrame)
	group, ctx := errgroup.WithContext(context.Background())

	group.Go(func() error {
		for i := 0; i < frames; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			emu.Run()
		}
		return nil
	})

	group.Go(func() error {
		left := make([]float32, samplesPerFrame)
		right := make([]float32, samplesPerFrame)
		for i := 0; i < frames; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			emu.FillAudio(left, right)
			for n := range left {
				audio = append(audio, [2]float32{left[n], right[n]})
			}
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("run frames: %w", err)
	}

	if lastFrame == nil {
		return fmt.Errorf("no frame was ever rendered")
	}
	if err := writeFrameBMP(framePath, lastFrame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if err := writeAudioWAV(audioPath, audio); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}

	fmt.Printf("ran %d frames; wrote %s and %s\n", frames, framePath, audioPath)
	return nil
}

// writeFrameBMP encodes an RGBA framebuffer, as produced by ppu.RenderFrame,
// as a BMP file.
func writeFrameBMP(path string, frame []byte) error {
	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	copy(img.Pix, frame)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := bmp.Encode(w, img); err != nil {
		return err
	}
	return w.Flush()
}

// writeAudioWAV writes a 16-bit PCM stereo WAV file from float32 samples
// in [-1, 1].
func writeAudioWAV(path string, samples [][2]float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	const (
		channels      = 2
		bitsPerSample = 16
	)
	dataSize := len(samples) * channels * (bitsPerSample / 8)
	byteRate := audioSampleRate * channels * (bitsPerSample / 8)
	blockAlign := channels * (bitsPerSample / 8)

	writeString(w, "RIFF")
	writeUint32(w, uint32(36+dataSize))
	writeString(w, "WAVE")

	writeString(w, "fmt ")
	writeUint32(w, 16)
	writeUint16(w, 1) // PCM
	writeUint16(w, channels)
	writeUint32(w, audioSampleRate)
	writeUint32(w, uint32(byteRate))
	writeUint16(w, uint16(blockAlign))
	writeUint16(w, bitsPerSample)

	writeString(w, "data")
	writeUint32(w, uint32(dataSize))
	for _, s := range samples {
		writeUint16(w, floatToPCM16(s[0]))
		writeUint16(w, floatToPCM16(s[1]))
	}

	return w.Flush()
}

func floatToPCM16(v float32) uint16 {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return uint16(int16(v * 32767))
}

func writeString(w *bufio.Writer, s string) { w.WriteString(s) }

func writeUint32(w *bufio.Writer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeUint16(w *bufio.Writer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}
