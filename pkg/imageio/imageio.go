package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Buffer is a grid of linear RGB pixels with row 0 at the top
type Buffer interface {
	Width() int
	Height() int
	Pixel(x, y int) core.Vec3
}

// LinearToByte converts a linear channel value to the nearest 8-bit sRGB value
func LinearToByte(c float64) uint8 {
	if math.IsNaN(c) {
		return 0
	}
	v := math.Round(255 * core.LinearToSRGB(c))
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v)
}

// ToColor converts a linear color to display RGBA
func ToColor(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: LinearToByte(c.X),
		G: LinearToByte(c.Y),
		B: LinearToByte(c.Z),
		A: 255,
	}
}

// ToRGBA converts a linear buffer to an sRGB image
func ToRGBA(buf Buffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, buf.Width(), buf.Height()))
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			img.SetRGBA(x, y, ToColor(buf.Pixel(x, y)))
		}
	}
	return img
}

// EncodePNG writes buf as a PNG
func EncodePNG(w io.Writer, buf Buffer) error {
	if err := png.Encode(w, ToRGBA(buf)); err != nil {
		return fmt.Errorf("error encoding PNG: %w", err)
	}
	return nil
}

// EncodePPM writes buf as a binary PPM (P6)
func EncodePPM(w io.Writer, buf Buffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", buf.Width(), buf.Height()); err != nil {
		return fmt.Errorf("error writing PPM header: %w", err)
	}

	row := make([]byte, 3*buf.Width())
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			c := buf.Pixel(x, y)
			row[3*x] = LinearToByte(c.X)
			row[3*x+1] = LinearToByte(c.Y)
			row[3*x+2] = LinearToByte(c.Z)
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("error writing PPM row %d: %w", y, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("error writing PPM: %w", err)
	}
	return nil
}

// WritePNG saves buf as a PNG file
func WritePNG(path string, buf Buffer) error {
	return writeFile(path, buf, EncodePNG)
}

// WritePPM saves buf as a binary PPM file
func WritePPM(path string, buf Buffer) error {
	return writeFile(path, buf, EncodePPM)
}

// Write picks the format from the file extension: .ppm for PPM, PNG otherwise
func Write(path string, buf Buffer) error {
	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		return WritePPM(path, buf)
	}
	return WritePNG(path, buf)
}

func writeFile(path string, buf Buffer, encode func(io.Writer, Buffer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := encode(file, buf); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}
	return nil
}
