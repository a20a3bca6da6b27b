package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/maastricht-university/emotiai/emotion"
	"github.com/maastricht-university/emotiai/render"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "sub", "journal.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, label := range []string{"joy", "sad", "angry"} {
		e := &Entry{
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
			Session:       "s1",
			Modality:      emotion.Text,
			Label:         label,
			Emotion:       label,
			Confidence:    50 + i,
			Probabilities: emotion.Probabilities{label: 0.5 + float64(i)/100},
		}
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if e.ID == "" {
			t.Error("ID not assigned")
		}
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Label != "angry" || got[1].Label != "sad" {
		t.Errorf("order = %s, %s", got[0].Label, got[1].Label)
	}
	if !got[0].Timestamp.Equal(base.Add(2*time.Minute)) || got[0].Probabilities["angry"] != 0.52 {
		t.Errorf("entry = %+v", got[0])
	}
}

func TestRecent_Empty(t *testing.T) {
	got, err := openTemp(t).Recent(context.Background(), 0)
	if err != nil || len(got) != 0 {
		t.Errorf("Recent() = %v, %v", got, err)
	}
}

func TestSink(t *testing.T) {
	j := openTemp(t)
	log, hook := test.NewNullLogger()
	var r render.Renderer = NewSink(j, "session-42", log)

	faces := 3
	r.Render(emotion.Result{Label: "happy", Probabilities: emotion.Probabilities{"happy": 0.66}, Faces: &faces}, emotion.Image)
	r.Render(emotion.Result{Label: "Sadness", Text: "so tired"}, emotion.Audio)

	if len(hook.AllEntries()) != 0 {
		t.Errorf("unexpected log entries: %v", hook.AllEntries())
	}
	got, err := j.Recent(context.Background(), 10)
	if err != nil || len(got) != 2 {
		t.Fatalf("Recent() = %v, %v", got, err)
	}
	byModality := map[emotion.Modality]*Entry{}
	for _, e := range got {
		byModality[e.Modality] = e
	}
	img := byModality[emotion.Image]
	if img == nil || img.Emotion != "joy" || img.Confidence != 66 || img.Faces != 3 || img.Session != "session-42" {
		t.Errorf("image entry = %+v", img)
	}
	audio := byModality[emotion.Audio]
	if audio == nil || audio.Emotion != "sad" || audio.Transcript != "so tired" || audio.Probabilities != nil {
		t.Errorf("audio entry = %+v", audio)
	}
}
