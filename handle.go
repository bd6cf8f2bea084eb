package littlefs

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Handle is an open littlefs filesystem. All operations funnel through a
// single mutex: the format has no provision for concurrent writers, so
// rather than pretend otherwise we serialize at the Handle boundary the way
// a single-threaded embedded target naturally would.
type Handle struct {
	dev BlockDevice

	mu    sync.Mutex
	root  BlockPair
	super Superblock

	log   *logrus.Logger
	clock Clock

	nameLengthMax uint32
	fileSizeMax   uint32
	lookaheadSize int

	alloc *allocator
}

func newHandle(dev BlockDevice, opts []Option) (*Handle, error) {
	h := &Handle{
		dev:           dev,
		log:           logrus.StandardLogger(),
		clock:         systemClock{},
		nameLengthMax: defaultNameLengthMax,
		fileSizeMax:   defaultFileSizeMax,
		lookaheadSize: 1024,
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	h.alloc = newAllocator(h.lookaheadSize)
	return h, nil
}
