package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notexe/cli-assistant/internal/notify"
	"github.com/notexe/cli-assistant/internal/store"
)

// VoiceRecord is one recognized voice interaction.
type VoiceRecord struct {
	ID         string    `json:"id"`
	Transcript string    `json:"transcript"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration,omitempty"`
}

// VoiceHistory manages the voice transcript log.
type VoiceHistory struct {
	store *store.Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewVoiceHistory creates a voice history manager backed by the given store.
func NewVoiceHistory(st *store.Store) *VoiceHistory {
	return &VoiceHistory{store: st, now: time.Now}
}

// All returns every voice record, newest first.
func (v *VoiceHistory) All() ([]VoiceRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var items []VoiceRecord
	if _, err := v.store.Load(store.PartitionVoiceHistory, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add prepends a transcript record.
func (v *VoiceHistory) Add(transcript string, duration time.Duration) (VoiceRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var items []VoiceRecord
	if _, err := v.store.Load(store.PartitionVoiceHistory, &items); err != nil {
		return VoiceRecord{}, err
	}
	rec := VoiceRecord{
		ID:         uuid.NewString(),
		Transcript: transcript,
		Timestamp:  v.now(),
		DurationMs: duration.Milliseconds(),
	}
	items = append([]VoiceRecord{rec}, items...)
	if err := v.store.Save(store.PartitionVoiceHistory, items); err != nil {
		return VoiceRecord{}, err
	}
	return rec, nil
}

// Clear empties the voice log.
func (v *VoiceHistory) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.store.Clear(store.PartitionVoiceHistory)
}

// PDFRecord is one summarized document.
type PDFRecord struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// PDFHistory manages the PDF summary log. Adding a record also raises a
// notification so the summary shows up in the alert feed.
type PDFHistory struct {
	store         *store.Store
	notifications *notify.Manager
	mu            sync.Mutex
	now           func() time.Time
}

// NewPDFHistory creates a PDF history manager backed by the given store.
func NewPDFHistory(st *store.Store, notifications *notify.Manager) *PDFHistory {
	return &PDFHistory{store: st, notifications: notifications, now: time.Now}
}

// All returns every PDF record, newest first.
func (p *PDFHistory) All() ([]PDFRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var items []PDFRecord
	if _, err := p.store.Load(store.PartitionPDFHistory, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add prepends a summary record and raises a "PDF summarized" notification.
func (p *PDFHistory) Add(fileName, summary string) (PDFRecord, error) {
	p.mu.Lock()

	var items []PDFRecord
	if _, err := p.store.Load(store.PartitionPDFHistory, &items); err != nil {
		p.mu.Unlock()
		return PDFRecord{}, err
	}
	rec := PDFRecord{
		ID:        uuid.NewString(),
		FileName:  fileName,
		Summary:   summary,
		Timestamp: p.now(),
	}
	items = append([]PDFRecord{rec}, items...)
	if err := p.store.Save(store.PartitionPDFHistory, items); err != nil {
		p.mu.Unlock()
		return PDFRecord{}, err
	}
	p.mu.Unlock()

	if p.notifications != nil {
		_, err := p.notifications.Add(notify.TypePDF, "PDF summarized",
			"Summary generated for \""+fileName+"\"", rec.ID)
		if err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// Clear empties the PDF log.
func (p *PDFHistory) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Clear(store.PartitionPDFHistory)
}
