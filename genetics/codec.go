package genetics

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidGenome is returned when a genome file cannot be decoded.
var ErrInvalidGenome = errors.New("invalid genome")

// Encode writes one "u,l,r,d" line per gene record followed by an "r,g,b"
// color line.
func Encode(w io.Writer, g *Genome) error {
	bw := bufio.NewWriter(w)
	for _, gene := range g.Genes {
		if _, err := fmt.Fprintf(bw, "%d,%d,%d,%d\n", gene[Up], gene[Left], gene[Right], gene[Down]); err != nil {
			return fmt.Errorf("writing gene: %w", err)
		}
	}
	if _, err := fmt.Fprintf(bw, "%d,%d,%d\n", g.Color.R, g.Color.G, g.Color.B); err != nil {
		return fmt.Errorf("writing color: %w", err)
	}
	return bw.Flush()
}

// Decode reads a genome written by Encode. The lineage color of a loaded
// genome starts as its display color.
func Decode(r io.Reader) (*Genome, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading genome: %w", err)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) != NumGenes+1 {
		return nil, fmt.Errorf("%w: %d lines, want %d", ErrInvalidGenome, len(lines), NumGenes+1)
	}

	g := &Genome{}
	for i := 0; i < NumGenes; i++ {
		fields, err := parseFields(lines[i], NumDirections)
		if err != nil {
			return nil, fmt.Errorf("%w: gene %d: %v", ErrInvalidGenome, i, err)
		}
		for d, v := range fields {
			if v != int(Blocked) && (v < 0 || v > int(MaxGeneIndex)) {
				return nil, fmt.Errorf("%w: gene %d outcome %d out of range: %d", ErrInvalidGenome, i, d, v)
			}
			g.Genes[i][d] = uint8(v)
		}
	}

	rgb, err := parseFields(lines[NumGenes], 3)
	if err != nil {
		return nil, fmt.Errorf("%w: color: %v", ErrInvalidGenome, err)
	}
	for _, v := range rgb {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: color channel out of range: %d", ErrInvalidGenome, v)
		}
	}
	g.Color = Color{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2])}
	g.Lineage = g.Color

	return g, nil
}

func parseFields(line string, want int) ([]int, error) {
	parts := strings.Split(line, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("%d fields, want %d", len(parts), want)
	}
	out := make([]int, want)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// SaveFile writes g to path.
func SaveFile(path string, g *Genome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating genome file: %w", err)
	}
	if err := Encode(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a genome from path.
func LoadFile(path string) (*Genome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening genome file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
