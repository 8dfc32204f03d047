package match

import (
	"math/rand/v2"
	"sync"
	"time"

	"case-exchange/internal/model"
)

// Shuffler 可设定种子的均匀随机打乱，可并发使用
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewShuffler seed 为 0 时按当前时间取种子
func NewShuffler(seed int64) *Shuffler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Shuffler{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

func (s *Shuffler) Shuffle(cases []*model.Case) {
	if len(cases) < 2 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(cases), func(i, j int) {
		cases[i], cases[j] = cases[j], cases[i]
	})
}
