package cli

import (
	"strconv"
	"strings"

	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/pipeline"
)

// parseSize parses "WxH" (also "W×H" and "W,H").
func parseSize(s string) (pipeline.Size, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		if w, h, ok = strings.Cut(s, "×"); !ok {
			w, h, ok = strings.Cut(s, ",")
		}
	}
	if !ok {
		return pipeline.Size{}, errors.New(errors.ErrCodeInvalidInput, "size %q must look like WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return pipeline.Size{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "size %q has a bad width", s)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return pipeline.Size{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "size %q has a bad height", s)
	}
	if width <= 0 || height <= 0 {
		return pipeline.Size{}, errors.New(errors.ErrCodeInvalidGeometry, "size %q must be positive", s)
	}
	return pipeline.Size{Width: width, Height: height}, nil
}

func parseSizes(in []string) ([]pipeline.Size, error) {
	out := make([]pipeline.Size, 0, len(in))
	for _, s := range in {
		size, err := parseSize(s)
		if err != nil {
			return nil, err
		}
		out = append(out, size)
	}
	return out, nil
}
