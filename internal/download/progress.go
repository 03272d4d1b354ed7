package download

// ProgressSink receives progress updates from the download pipeline.
//
// Slot indices identify one of N visual progress indicators
// (N = the concurrency limit); they carry no concurrency-control
// meaning. A negative total means the expected size is unknown and
// must be displayed as indeterminate, not as zero.
//
// Implementations are called from multiple worker goroutines and must
// be safe for concurrent use.
type ProgressSink interface {
	// TrackStarted assigns a new download to a slot.
	TrackStarted(slot int, label string, total int64)

	// TrackProgress reports bytes transferred so far for a slot.
	TrackProgress(slot int, written, total int64)

	// TrackFinished clears a slot after its download ends, whether it
	// succeeded or failed.
	TrackFinished(slot int)

	// BatchProgress reports overall completion: done tracks out of
	// total, in completion order.
	BatchProgress(done, total int)
}

// NopSink is a ProgressSink that discards all updates.
type NopSink struct{}

func (NopSink) TrackStarted(int, string, int64) {}
func (NopSink) TrackProgress(int, int64, int64) {}
func (NopSink) TrackFinished(int)               {}
func (NopSink) BatchProgress(int, int)          {}
