package dataset

const (
	// IdleGap is the timestamp gap, in milliseconds, that closes a segment.
	IdleGap int64 = 3_600_000
	// MaxSegmentLength is the largest number of messages in one segment.
	MaxSegmentLength = 20
	// halfWindowMin is the segment length above which a half window is emitted.
	halfWindowMin = 10
)

// Segments partitions msgs on idle gaps and the length cap. The message that
// triggers a break always starts the next segment, so every message lands in
// exactly one segment.
func Segments(msgs []RawMessage) []Segment {
	if len(msgs) == 0 {
		return nil
	}

	var segs []Segment
	start := 0
	for i := 1; i < len(msgs); i++ {
		gap := msgs[i].Timestamp - msgs[i-1].Timestamp
		if gap >= IdleGap || i-start >= MaxSegmentLength {
			segs = append(segs, Segment{Start: start, End: i})
			start = i
		}
	}

	// Flush remaining, even a lone message.
	segs = append(segs, Segment{Start: start, End: len(msgs)})
	return segs
}

// Windows returns the training windows for seg in emission order:
// full (L > 1), starter (always), half (L > 10).
func Windows(seg Segment) []Window {
	n := seg.Len()
	if n <= 0 {
		return nil
	}

	var ws []Window
	if n > 1 {
		ws = append(ws, Window{Kind: WindowFull, Start: seg.Start, End: seg.End})
	}
	ws = append(ws, Window{Kind: WindowStarter, Start: seg.Start, End: seg.Start + 1})
	if n > halfWindowMin {
		ws = append(ws, Window{Kind: WindowHalf, Start: seg.Start, End: seg.Start + n/2})
	}
	return ws
}

// Generate segments msgs and builds one Prompt per training window. Each
// window is built with its own Scope.
func Generate(msgs []RawMessage) Result {
	segs := Segments(msgs)
	res := Result{Segments: segs}
	for _, seg := range segs {
		for _, w := range Windows(seg) {
			res.Prompts = append(res.Prompts, BuildPrompt(msgs, w))
		}
	}
	return res
}
