package vexa

// The transcript endpoint has returned two body shapes over the life of the
// service: the current flat `{segments:[...]}` and a legacy
// `{data:{transcripts:[...]}}`. Individual segments likewise carry their
// fields under old or new names. Both variants are decoded here, once, at
// the transport boundary; the rest of the client only ever sees Segment.

type wireSegment struct {
	Time              string `json:"time"`
	AbsoluteStartTime string `json:"absolute_start_time"`
	Speaker           string `json:"speaker"`
	SpeakerName       string `json:"speaker_name"`
	Text              string `json:"text"`
	Transcript        string `json:"transcript"`
}

func (w wireSegment) normalize() Segment {
	seg := Segment{
		Time:    w.Time,
		Speaker: w.Speaker,
		Text:    w.Text,
	}
	if seg.Time == "" {
		seg.Time = w.AbsoluteStartTime
	}
	if seg.Speaker == "" {
		seg.Speaker = w.SpeakerName
	}
	if seg.Text == "" {
		seg.Text = w.Transcript
	}
	return seg
}

type transcriptEnvelope struct {
	Segments []wireSegment `json:"segments"`
	Data     *struct {
		Transcripts []wireSegment `json:"transcripts"`
	} `json:"data"`
}

func (e transcriptEnvelope) normalize() []Segment {
	wire := e.Segments
	if len(wire) == 0 && e.Data != nil {
		wire = e.Data.Transcripts
	}

	segments := make([]Segment, 0, len(wire))
	for _, w := range wire {
		segments = append(segments, w.normalize())
	}
	return segments
}
