package emotion

// FERVocabulary is the face-expression label set returned for image and video.
var FERVocabulary = []string{"happy", "sad", "angry", "fear", "surprise", "disgust", "neutral"}

// TextVocabulary is the label set used for text and audio results.
var TextVocabulary = []string{"joy", "sad", "angry", "fear", "surprise", "disgust", "neutral"}

func VocabularyFor(m Modality) []string {
	if m.IsVisual() {
		return FERVocabulary
	}
	return TextVocabulary
}

// IsVisual reports whether results of this modality come from face detection.
func (m Modality) IsVisual() bool { return m == Image || m == Video }

func (m Modality) Valid() bool {
	switch m {
	case Text, Audio, Image, Video, General:
		return true
	}
	return false
}
