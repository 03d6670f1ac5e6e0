package carrier

// MemCarrier is a minimal in-memory Carrier, used by GhostFS's own test
// suite so filesystem-level tests don't need to synthesize a real BMP or
// WAV fixture for every case. Grounded on the teacher's ibtree.DummyBackend
// in-memory test backend: same "Init() *T returning a pointer to a fresh
// copy" constructor idiom, same "trivial map/slice-backed stand-in for a
// real backend" role.
type MemCarrier struct {
	samples []byte
}

// Init initializes a MemCarrier with the given sample count, all zeroed.
func (self MemCarrier) Init(sampleCount int) *MemCarrier {
	self.samples = make([]byte, sampleCount)
	return &self
}

// NewMemCarrier is a convenience wrapper around Init.
func NewMemCarrier(sampleCount int) *MemCarrier {
	return (&MemCarrier{}).Init(sampleCount)
}

func (self *MemCarrier) SampleCount() int64 {
	return int64(len(self.samples))
}

func (self *MemCarrier) ReadAt(buf []byte, sampleOffset int64) error {
	if err := rangeCheck(self.SampleCount(), sampleOffset, len(buf)); err != nil {
		return err
	}
	copy(buf, self.samples[sampleOffset:])
	return nil
}

func (self *MemCarrier) WriteAt(buf []byte, sampleOffset int64) error {
	if err := rangeCheck(self.SampleCount(), sampleOffset, len(buf)); err != nil {
		return err
	}
	copy(self.samples[sampleOffset:], buf)
	return nil
}

func (self *MemCarrier) Sync() error  { return nil }
func (self *MemCarrier) Close() error { return nil }
