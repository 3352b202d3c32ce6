package vexa

// Segment is one attributed utterance in the transcript feed, normalized
// from the wire representation. Segments are identified positionally: the
// feed is append-only and never mutates already-returned entries.
type Segment struct {
	Time    string `json:"time"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Meeting is one entry from the meeting listing
type Meeting struct {
	Platform        string `json:"platform"`
	NativeMeetingID string `json:"native_meeting_id"`
	Status          string `json:"status,omitempty"`
	StartTime       string `json:"start_time,omitempty"`
}

// BotInfo is the remote service's view of a dispatched bot
type BotInfo struct {
	ID              int    `json:"id,omitempty"`
	Platform        string `json:"platform"`
	NativeMeetingID string `json:"native_meeting_id"`
	BotName         string `json:"bot_name,omitempty"`
	Status          string `json:"status,omitempty"`
}

// EmotionSample is one emotion observation. Samples appear both in
// per-speaker lists (with emoji/color decoration) and in the global
// timeline (with speaker/text preview).
type EmotionSample struct {
	Speaker     string  `json:"speaker,omitempty"`
	Emotion     string  `json:"emotion"`
	Confidence  float64 `json:"confidence"`
	Timestamp   string  `json:"timestamp"`
	TextPreview string  `json:"text_preview,omitempty"`
	Emoji       string  `json:"emoji,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// SpeakerEmotions holds the analyzed emotion history for one speaker
type SpeakerEmotions struct {
	Speaker             string             `json:"speaker"`
	Emotions            []EmotionSample    `json:"emotions"`
	DominantEmotion     string             `json:"dominant_emotion"`
	EmotionDistribution map[string]float64 `json:"emotion_distribution,omitempty"`
}

// EmotionReport is the meeting-level emotion payload
type EmotionReport struct {
	MeetingID       string             `json:"meeting_id,omitempty"`
	Speakers        []SpeakerEmotions  `json:"speakers"`
	OverallMood     map[string]float64 `json:"overall_mood"`
	EmotionTimeline []EmotionSample    `json:"emotion_timeline"`
}

// EmotionLabels maps emotion names to display decorations
type EmotionLabels struct {
	Labels map[string]string `json:"labels"` // emotion -> emoji
	Colors map[string]string `json:"colors"` // emotion -> hex color
}

// MoodEntry is one speaker's mood in the lightweight mood report
type MoodEntry struct {
	Dominant string `json:"dominant"`
}

// MoodReport is the lightweight per-speaker mood payload
type MoodReport struct {
	Moods map[string]MoodEntry `json:"moods"`
}

// GenerativeSummary is the pre-computed narrative summary payload
type GenerativeSummary struct {
	Text string `json:"text"` // Restricted-markdown body
}

// BulletSummary is the pre-computed frequency-based summary payload
type BulletSummary struct {
	Bullets []string `json:"bullets"`
}
