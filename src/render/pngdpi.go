package render

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"math"
)

const inchesPerMeter = 1 / 0.0254

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// encodePNG encodes img and records dpi in a pHYs chunk right after IHDR.
func encodePNG(img image.Image, dpi float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return insertPHYs(buf.Bytes(), dpi)
}

// insertPHYs returns a copy of the PNG stream with a pHYs chunk declaring
// dpi in pixels per meter. The chunk must precede IDAT; it is placed right
// after IHDR, which the encoder always writes first.
func insertPHYs(data []byte, dpi float64) ([]byte, error) {
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd || !bytes.Equal(data[:8], pngSignature) || string(data[12:16]) != "IHDR" {
		return nil, errors.New("not a png stream")
	}
	ppm := uint32(math.Round(dpi * inchesPerMeter))
	body := make([]byte, 9)
	binary.BigEndian.PutUint32(body[0:4], ppm)
	binary.BigEndian.PutUint32(body[4:8], ppm)
	body[8] = 1 // unit: meter

	chunk := make([]byte, 0, 12+len(body))
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(body)))
	chunk = append(chunk, "pHYs"...)
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}

// readDPI returns the resolution declared by the pHYs chunk of a PNG stream.
func readDPI(data []byte) (float64, bool) {
	if len(data) < 8 || !bytes.Equal(data[:8], pngSignature) {
		return 0, false
	}
	for off := 8; off+12 <= len(data); {
		n := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		if off+12+n > len(data) {
			return 0, false
		}
		if typ == "pHYs" && n == 9 {
			body := data[off+8 : off+8+n]
			if body[8] != 1 {
				return 0, false
			}
			return float64(binary.BigEndian.Uint32(body[0:4])) / inchesPerMeter, true
		}
		if typ == "IDAT" || typ == "IEND" {
			return 0, false
		}
		off += 12 + n
	}
	return 0, false
}
