package main

import (
	"fmt"
	"strconv"
	"strings"

	"astriql/domain/readout"
	"astriql/internal/errors"
)

// Option keys accepted after the positional arguments
const (
	histogramOptionKeys = "txy"
	temporalOptionKeys  = "ty"
)

func parseInt(name, value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.InvalidParameter(name, fmt.Errorf("%q is not an integer", value))
	}
	return v, nil
}

// parseOptions reads t=title, x=xlabel and y=ylabel tokens in any order.
// Only the keys listed in allowed are accepted and each may appear once.
func parseOptions(tokens []string, allowed string) (readout.Labels, error) {
	var labels readout.Labels
	if len(tokens) > len(allowed) {
		return labels, errors.ValidationError(fmt.Sprintf("at most %d options allowed, got %d", len(allowed), len(tokens)))
	}
	seen := make(map[byte]bool, len(allowed))
	for _, tok := range tokens {
		if len(tok) < 2 || tok[1] != '=' || !strings.ContainsRune(allowed, rune(tok[0])) {
			return labels, errors.InvalidParameter("option", fmt.Errorf("%q is not one of %s", tok, optionUsage(allowed)))
		}
		key, value := tok[0], tok[2:]
		if seen[key] {
			return labels, errors.InvalidParameter("option", fmt.Errorf("%c= given twice", key))
		}
		seen[key] = true
		switch key {
		case 't':
			labels.Title = value
		case 'x':
			labels.XLabel = value
		case 'y':
			labels.YLabel = value
		}
	}
	return labels, nil
}

func optionUsage(allowed string) string {
	names := map[rune]string{'t': "t=title", 'x': "x=xlabel", 'y': "y=ylabel"}
	parts := make([]string, 0, len(allowed))
	for _, k := range allowed {
		parts = append(parts, names[k])
	}
	return strings.Join(parts, ", ")
}
