package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dentalmark/dentalmark/internal/app"
)

// parsePoint parses "x,y".
func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q", ys)
	}
	return x, y, nil
}

// parseImageRef parses the image position prefix before sep.
func parseImageRef(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid image position %q", s)
	}
	return n, nil
}

// markList is a repeatable --mark IMAGE:TREATMENT@X,Y flag. The treatment
// name may contain spaces and colons; the last '@' separates the point.
type markList []app.MarkOp

func (m *markList) String() string {
	parts := make([]string, len(*m))
	for i, op := range *m {
		parts[i] = fmt.Sprintf("%d:%s@%g,%g", op.Image, op.Treatment, op.X, op.Y)
	}
	return strings.Join(parts, " ")
}

func (m *markList) Set(s string) error {
	img, rest, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("expected IMAGE:TREATMENT@X,Y, got %q", s)
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return fmt.Errorf("expected IMAGE:TREATMENT@X,Y, got %q", s)
	}
	index, err := parseImageRef(img)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(rest[:at])
	if name == "" {
		return fmt.Errorf("missing treatment in %q", s)
	}
	x, y, err := parsePoint(rest[at+1:])
	if err != nil {
		return err
	}
	*m = append(*m, app.MarkOp{Image: index, Treatment: name, X: x, Y: y})
	return nil
}

func (m *markList) Type() string { return "mark" }

// selectList is a repeatable --select IMAGE@X,Y flag.
type selectList []app.SelectOp

func (s *selectList) String() string {
	parts := make([]string, len(*s))
	for i, op := range *s {
		parts[i] = fmt.Sprintf("%d@%g,%g", op.Image, op.X, op.Y)
	}
	return strings.Join(parts, " ")
}

func (s *selectList) Set(v string) error {
	img, pt, ok := strings.Cut(v, "@")
	if !ok {
		return fmt.Errorf("expected IMAGE@X,Y, got %q", v)
	}
	index, err := parseImageRef(img)
	if err != nil {
		return err
	}
	x, y, err := parsePoint(pt)
	if err != nil {
		return err
	}
	*s = append(*s, app.SelectOp{Image: index, X: x, Y: y})
	return nil
}

func (s *selectList) Type() string { return "point" }
