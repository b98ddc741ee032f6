package main

// traceRing keeps the most recent trace lines.
type traceRing struct {
	lines []string
	next  int
	fill  int
}

// newTraceRing holds up to size lines. A size of zero or less keeps nothing.
func newTraceRing(size int) *traceRing {
	return &traceRing{lines: make([]string, max(size, 0))}
}

func (r *traceRing) Add(line string) {
	if len(r.lines) == 0 {
		return
	}
	r.lines[r.next] = line
	r.next = (r.next + 1) % len(r.lines)
	if r.fill < len(r.lines) {
		r.fill++
	}
}

// Lines returns the kept lines, oldest first.
func (r *traceRing) Lines() []string {
	out := make([]string, 0, r.fill)
	if r.fill == 0 {
		return out
	}
	start := (r.next - r.fill + len(r.lines)) % len(r.lines)
	for i := 0; i < r.fill; i++ {
		out = append(out, r.lines[(start+i)%len(r.lines)])
	}
	return out
}
