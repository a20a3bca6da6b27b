package emotion

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func fptr(v float64) *float64 { return &v }

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "neutral"},
		{"happy", "joy"},
		{"HAPPY", "joy"},
		{"Excited", "joy"},
		{"sadness", "sad"},
		{"anger", "angry"},
		{"Fear", "fear"},
		{"neutral", "neutral"},
		{"Contempt", "contempt"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_RangeProperty(t *testing.T) {
	for _, in := range []string{"joy", "Surprise", "DISGUST", "bored", "Über", "happy", "x"} {
		got := Normalize(in)
		if !IsCanonical(got) && got != strings.ToLower(in) {
			t.Errorf("Normalize(%q) = %q, neither canonical nor lower-cased input", in, got)
		}
	}
}

func TestSmoother_FirstSampleUnchanged(t *testing.T) {
	s := NewSmoother(DefaultAlpha, DefaultHistorySize)
	v := Probabilities{"joy": 0.4, "sad": 0.6}

	got := s.Smooth(v)
	if len(got) != 2 || got["joy"] != 0.4 || got["sad"] != 0.6 {
		t.Fatalf("first sample changed: %v", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSmoother_Arithmetic(t *testing.T) {
	s := NewSmoother(0.7, 5)
	s.Smooth(Probabilities{"joy": 0.2})

	got := s.Smooth(Probabilities{"joy": 0.8})
	if !approx(got["joy"], 0.62) {
		t.Errorf("joy = %v, want 0.62", got["joy"])
	}
}

func TestSmoother_KeySetFollowsCurrent(t *testing.T) {
	s := NewSmoother(0.5, 5)
	s.Smooth(Probabilities{"joy": 0.2, "sad": 0.8})

	got := s.Smooth(Probabilities{"joy": 0.6, "fear": 0.3})
	if _, ok := got["sad"]; ok {
		t.Error("key present only in history was carried forward")
	}
	if !approx(got["joy"], 0.4) {
		t.Errorf("joy = %v, want 0.4", got["joy"])
	}
	if got["fear"] != 0.3 {
		t.Errorf("new key fear = %v, want unsmoothed 0.3", got["fear"])
	}
}

func TestSmoother_UsesMostRecentSmoothedEntry(t *testing.T) {
	s := NewSmoother(0.5, 5)
	s.Smooth(Probabilities{"joy": 0})
	s.Smooth(Probabilities{"joy": 1}) // 0.5
	got := s.Smooth(Probabilities{"joy": 1})
	if !approx(got["joy"], 0.75) {
		t.Errorf("joy = %v, want 0.75", got["joy"])
	}
}

func TestSmoother_BoundedHistory(t *testing.T) {
	s := NewSmoother(DefaultAlpha, DefaultHistorySize)
	for n := 1; n <= 12; n++ {
		s.Smooth(Probabilities{"joy": float64(n) / 12})
		want := n
		if want > 5 {
			want = 5
		}
		if s.Len() != want {
			t.Fatalf("after %d calls Len() = %d, want %d", n, s.Len(), want)
		}
	}
}

func TestSmoother_HistoryIsCopy(t *testing.T) {
	s := NewSmoother(DefaultAlpha, DefaultHistorySize)
	in := Probabilities{"joy": 0.5}
	s.Smooth(in)
	in["joy"] = 0.9

	h := s.History()
	if h[0]["joy"] != 0.5 {
		t.Errorf("history aliased caller map: %v", h[0])
	}
	h[0]["joy"] = 0
	if s.History()[0]["joy"] != 0.5 {
		t.Error("History() returned internal state")
	}
}

func TestSmoother_Reset(t *testing.T) {
	s := NewSmoother(DefaultAlpha, DefaultHistorySize)
	s.Smooth(Probabilities{"joy": 0.2})
	s.Reset()
	got := s.Smooth(Probabilities{"joy": 0.8})
	if got["joy"] != 0.8 {
		t.Errorf("after Reset joy = %v, want 0.8", got["joy"])
	}
}

func TestNewSmoother_Defaults(t *testing.T) {
	s := NewSmoother(0, -1)
	if s.Alpha() != DefaultAlpha {
		t.Errorf("Alpha() = %v, want %v", s.Alpha(), DefaultAlpha)
	}
	for i := 0; i < 8; i++ {
		s.Smooth(Probabilities{"joy": 1})
	}
	if s.Len() != DefaultHistorySize {
		t.Errorf("Len() = %d, want %d", s.Len(), DefaultHistorySize)
	}
}

func TestShouldDisplay(t *testing.T) {
	tests := []struct {
		name      string
		result    Result
		threshold float64
		want      bool
	}{
		{"low explicit confidence", Result{Confidence: fptr(0.35)}, 0.4, false},
		{"explicit confidence wins over probabilities", Result{Confidence: fptr(0.35), Probabilities: Probabilities{"joy": 0.9}}, 0.4, false},
		{"confidence at threshold", Result{Confidence: fptr(0.4)}, 0.4, true},
		{"max probability passes", Result{Probabilities: Probabilities{"joy": 0.5, "sad": 0.1}}, 0.4, true},
		{"max probability fails", Result{Probabilities: Probabilities{"joy": 0.25, "sad": 0.2}}, 0.3, false},
		{"empty mapping", Result{Probabilities: Probabilities{}}, 0.3, false},
		{"nothing to gate on", Result{Label: "joy"}, 0.4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldDisplay(tt.result, tt.threshold); got != tt.want {
				t.Errorf("ShouldDisplay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProbabilities_Dominant(t *testing.T) {
	p := Probabilities{"sad": 0.3, "joy": 0.3, "fear": 0.1}
	if got := p.Dominant(); got != "joy" {
		t.Errorf("Dominant() = %q, want joy", got)
	}
	if got := (Probabilities{}).Dominant(); got != "" {
		t.Errorf("empty Dominant() = %q", got)
	}
	if _, ok := (Probabilities{}).Max(); ok {
		t.Error("empty Max() reported ok")
	}
}

func TestResult_DecodeOptionalFields(t *testing.T) {
	var r Result
	if err := json.Unmarshal([]byte(`{"faces":0}`), &r); err != nil {
		t.Fatal(err)
	}
	if r.Faces == nil || *r.Faces != 0 {
		t.Errorf("Faces = %v, want explicit 0", r.Faces)
	}
	if r.HasProbabilities() || r.Confidence != nil {
		t.Errorf("unexpected fields: %+v", r)
	}

	if err := json.Unmarshal([]byte(`{"label":"happy","probabilities":{"happy":0.9},"confidence":0.8}`), &r); err != nil {
		t.Fatal(err)
	}
	if r.Label != "happy" || r.Probabilities["happy"] != 0.9 || *r.Confidence != 0.8 {
		t.Errorf("decoded %+v", r)
	}
}

func TestVocabularyFor(t *testing.T) {
	if VocabularyFor(Video)[0] != "happy" || VocabularyFor(Image)[0] != "happy" {
		t.Error("visual modalities should use the FER vocabulary")
	}
	for _, m := range []Modality{Text, Audio, General} {
		if VocabularyFor(m)[0] != "joy" {
			t.Errorf("%s should use the text vocabulary", m)
		}
	}
}
