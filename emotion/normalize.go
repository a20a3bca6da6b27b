package emotion

import "strings"

// Canonical emotion labels.
const (
	Joy      = "joy"
	Sad      = "sad"
	Angry    = "angry"
	Fear     = "fear"
	Surprise = "surprise"
	Disgust  = "disgust"
	Neutral  = "neutral"
)

var Canonical = []string{Joy, Sad, Angry, Fear, Surprise, Disgust, Neutral}

var synonyms = map[string]string{
	"happy":   Joy,
	"excited": Joy,
	"sadness": Sad,
	"anger":   Angry,
}

// Normalize maps a raw backend label to its canonical lower-case form.
// Unknown labels pass through lower-cased.
func Normalize(label string) string {
	if label == "" {
		return Neutral
	}
	lower := strings.ToLower(label)
	if c, ok := synonyms[lower]; ok {
		return c
	}
	return lower
}

func IsCanonical(label string) bool {
	for _, c := range Canonical {
		if c == label {
			return true
		}
	}
	return false
}
