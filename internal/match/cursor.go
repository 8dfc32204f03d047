package match

import "case-exchange/internal/model"

// Tier 产生候选的层级
type Tier int

const (
	TierNone Tier = iota
	TierInterest
	TierRegion
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierInterest:
		return "interest"
	case TierRegion:
		return "region"
	case TierFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Cursor 一次计算出的候选序列，只能向前消费，不可重置
// 需要反映新的点赞时重新调用 NextCandidates
type Cursor struct {
	tier  Tier
	items []*model.Case
	pos   int
}

func newCursor(tier Tier, items []*model.Case) *Cursor {
	return &Cursor{tier: tier, items: items}
}

func (c *Cursor) Tier() Tier { return c.tier }

// Next 返回下一个候选，耗尽时 ok 为 false
func (c *Cursor) Next() (*model.Case, bool) {
	if c.pos >= len(c.items) {
		return nil, false
	}
	item := c.items[c.pos]
	c.pos++
	return item, true
}

// Take 取出至多 n 个候选；n<=0 取出全部剩余
func (c *Cursor) Take(n int) []*model.Case {
	rest := len(c.items) - c.pos
	if n <= 0 || n > rest {
		n = rest
	}
	out := c.items[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return out
}

// Remaining 剩余未消费的候选数
func (c *Cursor) Remaining() int { return len(c.items) - c.pos }
