package instrument

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Static is an in-memory Catalog. Handy for tests and simulations where
// the instrument universe is fixed up front.
type Static struct {
	instruments map[int64]Instrument
	quotes      map[int64]Quote
}

func NewStatic() *Static {
	return &Static{
		instruments: make(map[int64]Instrument),
		quotes:      make(map[int64]Quote),
	}
}

// Add registers an instrument with its current quote.
func (c *Static) Add(inst Instrument, q Quote) {
	c.instruments[inst.ID] = inst
	q.InstrumentID = inst.ID
	c.quotes[inst.ID] = q
}

// SetQuote replaces an instrument's quote.
func (c *Static) SetQuote(id int64, q Quote) {
	q.InstrumentID = id
	c.quotes[id] = q
}

func (c *Static) Get(ctx context.Context, id int64) (Instrument, Quote, error) {
	inst, ok := c.instruments[id]
	if !ok {
		return Instrument{}, Quote{}, fmt.Errorf("instrument %d: %w", id, ErrNotFound)
	}
	return inst, c.quotes[id], nil
}

func (c *Static) List(ctx context.Context, page Page) ([]Instrument, int, error) {
	return c.filter(func(Instrument) bool { return true }, page)
}

func (c *Static) Search(ctx context.Context, query string, page Page) ([]Instrument, int, error) {
	q := strings.ToLower(query)
	return c.filter(func(i Instrument) bool {
		return strings.Contains(strings.ToLower(i.Ticker), q) ||
			strings.Contains(strings.ToLower(i.Name), q)
	}, page)
}

func (c *Static) filter(keep func(Instrument) bool, page Page) ([]Instrument, int, error) {
	var all []Instrument
	for _, inst := range c.instruments {
		if keep(inst) {
			all = append(all, inst)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	count := len(all)
	limit := normalize(page.Limit)
	if page.Offset >= count {
		return nil, count, nil
	}
	all = all[page.Offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, count, nil
}
