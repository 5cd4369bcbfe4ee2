package launcher

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var desktopSpecRe = regexp.MustCompile(`^(\d+)x(\d+)$`)

// DesktopSpec describes a wine virtual desktop window.
type DesktopSpec struct {
	Width  int
	Height int
	Name   string
}

// ParseDesktop parses a "WxH" spec like "1024x768". An empty spec
// returns nil without error.
func ParseDesktop(spec string) (*DesktopSpec, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	m := desktopSpecRe.FindStringSubmatch(spec)
	if m == nil {
		return nil, errors.New("invalid desktop spec, use like: 1024x768")
	}
	width, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("parse desktop width: %w", err)
	}
	height, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("parse desktop height: %w", err)
	}
	if width < 320 || height < 200 {
		return nil, errors.New("desktop size too small, use something like 800x600 or higher")
	}
	return &DesktopSpec{Width: width, Height: height, Name: "norun"}, nil
}

// WineArg renders the explorer argument enabling the virtual desktop.
func (d *DesktopSpec) WineArg() string {
	return fmt.Sprintf("/desktop=%s,%dx%d", d.Name, d.Width, d.Height)
}
