package rag

import (
	"fmt"
	"strconv"
	"strings"

	"qatbot/internal/models"
)

// parseTestQuestion splits the test-question stage's output on the first
// question mark: everything before it (plus the mark) is the question,
// everything after it, trimmed, is the reference answer. Output without a
// question mark violates the stage contract.
func parseTestQuestion(raw string) (question, answer string, err error) {
	idx := strings.Index(raw, "?")
	if idx < 0 {
		return "", "", fmt.Errorf("%w: test question output contains no '?'", models.ErrMalformedGeneration)
	}
	return raw[:idx+1], strings.TrimSpace(raw[idx+1:]), nil
}

// parseBulletPoints splits the bullet stage's output on its "-\n" delimiter,
// keeping order. Items are trimmed and empty artifacts of the delimiter
// dropped.
func parseBulletPoints(raw string) []string {
	var points []string
	for _, part := range strings.Split(raw, "-\n") {
		if p := strings.TrimSpace(part); p != "" {
			points = append(points, p)
		}
	}
	return points
}

// parseVerdict applies the literal contract of the understanding stage: the
// trimmed output must equal "True" exactly; anything else counts as false.
func parseVerdict(raw string) bool {
	return strings.TrimSpace(raw) == "True"
}

// parseConfidence extracts the integer score, tolerating a preamble like
// "Score: 85" by taking the substring after the last colon.
func parseConfidence(raw string) (int, error) {
	s := raw
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: confidence output %q is not an integer", models.ErrMalformedGeneration, raw)
	}
	return n, nil
}
