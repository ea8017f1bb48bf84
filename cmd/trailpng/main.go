// Package main renders a saved snapshot's trail field to a grayscale PNG.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/pthm-cable/slime/telemetry"
)

func main() {
	inPath := flag.String("in", "", "Snapshot JSON file to render")
	outPath := flag.String("out", "trail.png", "Output PNG path")
	gain := flag.Float64("gain", 1.0, "Brightness multiplier")
	flag.Parse()

	if *inPath == "" {
		log.Fatal("--in is required")
	}

	snap, err := telemetry.LoadSnapshot(*inPath)
	if err != nil {
		log.Fatalf("failed to load snapshot: %v", err)
	}

	img := image.NewGray(image.Rect(0, 0, snap.FieldW, snap.FieldH))
	for y := 0; y < snap.FieldH; y++ {
		for x := 0; x < snap.FieldW; x++ {
			v := float64(snap.Field[y*snap.FieldW+x]) * *gain * 255
			if v > 255 {
				v = 255
			} else if v < 0 {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		log.Fatalf("failed to encode png: %v", err)
	}

	log.Printf("wrote %s (%dx%d, tick %d)", *outPath, snap.FieldW, snap.FieldH, snap.Tick)
}
