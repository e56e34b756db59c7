// Package pcd reads and writes Point Cloud Data (.pcd) files with the
// fields the slicer cares about: x y z and optional packed rgb.
package pcd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/cloud_slicer/cloud"
)

type header struct {
	fields []string
	sizes  []int
	points int
	data   string
}

func parseHeader(br *bufio.Reader) (*header, error) {
	h := &header{points: -1}
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, errors.Wrapf(err, "Unexpected end of header")
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		switch parts[0] {
		case "FIELDS":
			h.fields = parts[1:]
		case "SIZE":
			h.sizes = make([]int, 0, len(parts)-1)
			for _, s := range parts[1:] {
				v, err := strconv.Atoi(s)
				if err != nil {
					return nil, errors.Wrapf(err, "Bad SIZE entry %q", s)
				}
				h.sizes = append(h.sizes, v)
			}
		case "POINTS":
			v, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, errors.Wrapf(err, "Bad POINTS %q", parts[1])
			}
			h.points = v
		case "DATA":
			if len(parts) != 2 {
				return nil, errors.Errorf("Bad DATA line %q", line)
			}
			h.data = parts[1]
			return h, nil
		case "VERSION", "TYPE", "COUNT", "WIDTH", "HEIGHT", "VIEWPOINT":
			// not needed for decoding
		default:
			return nil, errors.Errorf("Unknown header entry %q", parts[0])
		}
	}
}

func (h *header) fieldOffset(name string) (offset, size int, ok bool) {
	for i, f := range h.fields {
		if f == name {
			return offset, h.sizes[i], true
		}
		offset += h.sizes[i]
	}
	return 0, 0, false
}

func (h *header) stride() int {
	s := 0
	for _, v := range h.sizes {
		s += v
	}
	return s
}

func unpackRGB(packed uint32) (r, g, b float32) {
	return float32((packed>>16)&0xff) / 255,
		float32((packed>>8)&0xff) / 255,
		float32(packed&0xff) / 255
}

// Decode reads a PCD file with x y z and optional rgb fields.
func Decode(r io.Reader) (*cloud.PointCloud, error) {
	br := bufio.NewReader(r)
	h, err := parseHeader(br)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse pcd header")
	}
	if h.points < 0 {
		return nil, errors.Errorf("Header misses POINTS")
	}
	for _, f := range []string{"x", "y", "z"} {
		if _, _, ok := h.fieldOffset(f); !ok {
			return nil, errors.Errorf("Header misses field %q", f)
		}
	}
	switch h.data {
	case "ascii":
		return decodeAscii(br, h)
	case "binary":
		return decodeBinary(br, h)
	default:
		return nil, errors.Errorf("Unsupported DATA encoding %q", h.data)
	}
}

func decodeAscii(br *bufio.Reader, h *header) (*cloud.PointCloud, error) {
	xi, yi, zi, ci := -1, -1, -1, -1
	for i, f := range h.fields {
		switch f {
		case "x":
			xi = i
		case "y":
			yi = i
		case "z":
			zi = i
		case "rgb":
			ci = i
		}
	}

	positions := make([]float32, 0, h.points*3)
	var colors []float32
	if ci >= 0 {
		colors = make([]float32, 0, h.points*3)
	}

	sc := bufio.NewScanner(br)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < len(h.fields) {
			return nil, errors.Errorf("Short point line %q", line)
		}
		var p [3]float32
		for k, idx := range []int{xi, yi, zi} {
			v, err := strconv.ParseFloat(parts[idx], 32)
			if err != nil {
				return nil, errors.Wrapf(err, "Bad coordinate %q", parts[idx])
			}
			p[k] = float32(v)
		}
		positions = append(positions, p[0], p[1], p[2])
		if ci >= 0 {
			// rgb is stored as a float whose bits hold the packed color
			v, err := strconv.ParseFloat(parts[ci], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "Bad rgb %q", parts[ci])
			}
			r, g, b := unpackRGB(math.Float32bits(float32(v)))
			colors = append(colors, r, g, b)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "Failed to read points")
	}
	if len(positions)/3 != h.points {
		return nil, errors.Errorf("Expected %v points, got %v", h.points, len(positions)/3)
	}
	return cloud.New(positions, colors), nil
}

func decodeBinary(br *bufio.Reader, h *header) (*cloud.PointCloud, error) {
	xo, _, _ := h.fieldOffset("x")
	yo, _, _ := h.fieldOffset("y")
	zo, _, _ := h.fieldOffset("z")
	co, _, hasColor := h.fieldOffset("rgb")
	stride := h.stride()

	raw := make([]byte, stride*h.points)
	if _, err := io.ReadFull(br, raw); err != nil {
		return nil, errors.Wrapf(err, "Failed to read %v binary points", h.points)
	}

	positions := make([]float32, 0, h.points*3)
	var colors []float32
	if hasColor {
		colors = make([]float32, 0, h.points*3)
	}
	for i := 0; i < h.points; i++ {
		rec := raw[i*stride:]
		positions = append(positions,
			math.Float32frombits(binary.LittleEndian.Uint32(rec[xo:])),
			math.Float32frombits(binary.LittleEndian.Uint32(rec[yo:])),
			math.Float32frombits(binary.LittleEndian.Uint32(rec[zo:])))
		if hasColor {
			r, g, b := unpackRGB(binary.LittleEndian.Uint32(rec[co:]))
			colors = append(colors, r, g, b)
		}
	}
	return cloud.New(positions, colors), nil
}

// Encode writes the cloud as an ascii PCD file.
func Encode(w io.Writer, pc *cloud.PointCloud) error {
	bw := bufio.NewWriter(w)

	fields, sizes, types, counts := "x y z", "4 4 4", "F F F", "1 1 1"
	if pc.HasColors() {
		fields, sizes, types, counts = "x y z rgb", "4 4 4 4", "F F F F", "1 1 1 1"
	}
	n := pc.Count()
	fmt.Fprintf(bw, "VERSION .7\nFIELDS %s\nSIZE %s\nTYPE %s\nCOUNT %s\n", fields, sizes, types, counts)
	fmt.Fprintf(bw, "WIDTH %d\nHEIGHT 1\nVIEWPOINT 0 0 0 1 0 0 0\nPOINTS %d\nDATA ascii\n", n, n)

	for i := 0; i < n; i++ {
		p := pc.At(i)
		if pc.HasColors() {
			c := pc.ColorAt(i)
			packed := uint32(c.X()*255)<<16 | uint32(c.Y()*255)<<8 | uint32(c.Z()*255)
			fmt.Fprintf(bw, "%g %g %g %g\n", p.X(), p.Y(), p.Z(), math.Float32frombits(packed))
		} else {
			fmt.Fprintf(bw, "%g %g %g\n", p.X(), p.Y(), p.Z())
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, "Failed to write pcd")
	}
	return nil
}
