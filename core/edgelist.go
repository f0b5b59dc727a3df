package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports the line on which ReadEdgeList failed.
// It unwraps to ErrMalformedEdgeList.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("core: malformed edge list at line %d: %s", e.Line, e.Reason)
}

// Unwrap lets errors.Is(err, ErrMalformedEdgeList) match.
func (e *ParseError) Unwrap() error { return ErrMalformedEdgeList }

// ReadEdgeList reads a capacity graph in plain text:
//
//	# comment
//	4          <- node count
//	0 1 7      <- from to capacity
//	1 2 6
//
// Blank lines and text after '#' are ignored. Range and sign checks are left
// to NewGraph so the errors match the programmatic constructor.
func ReadEdgeList(r io.Reader, opts ...GraphOption) (*Graph, error) {
	sc := bufio.NewScanner(r)
	n := -1
	var arcs []Arc
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		if n < 0 {
			if len(fields) != 1 {
				return nil, &ParseError{Line: line, Reason: "expected node count"}
			}
			v, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, &ParseError{Line: line, Reason: err.Error()}
			}
			n = v
			continue
		}

		if len(fields) != 3 {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("expected 3 fields, got %d", len(fields))}
		}
		from, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, &ParseError{Line: line, Reason: err.Error()}
		}
		to, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, &ParseError{Line: line, Reason: err.Error()}
		}
		c, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, &ParseError{Line: line, Reason: err.Error()}
		}
		arcs = append(arcs, Arc{From: from, To: to, Capacity: c})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("core: reading edge list: %w", err)
	}
	if n < 0 {
		return nil, &ParseError{Line: line, Reason: "missing node count"}
	}

	return NewGraph(n, arcs, opts...)
}
