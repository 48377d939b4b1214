package transcode

import (
	"sort"

	"github.com/backmassage/hevcmux/internal/media"
	"github.com/backmassage/hevcmux/internal/planner"
)

// codecPair is the decoder/encoder pair of one transcoded stream.
type codecPair struct {
	dec Decoder
	enc Encoder
}

// close releases both contexts. Safe to call more than once.
func (c *codecPair) close() {
	if c == nil {
		return
	}
	if c.enc != nil {
		c.enc.Close()
		c.enc = nil
	}
	if c.dec != nil {
		c.dec.Close()
		c.dec = nil
	}
}

// route is where coded units of one kept input stream go.
type route struct {
	action planner.Action
	in     media.StreamInfo
	out    OutputStream
	codecs *codecPair // ActionTranscode only
}

// routeTable is indexed by input stream index. Dropped streams have no
// entry. It owns every codec pair it holds.
type routeTable struct {
	routes map[int]*route
}

func newRouteTable() *routeTable {
	return &routeTable{routes: make(map[int]*route)}
}

func (t *routeTable) add(inputIndex int, r *route) {
	t.routes[inputIndex] = r
}

func (t *routeTable) lookup(inputIndex int) *route {
	return t.routes[inputIndex]
}

// transcoded returns the input indices of transcoded streams, ascending.
func (t *routeTable) transcoded() []int {
	var out []int
	for idx, r := range t.routes {
		if r.codecs != nil {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// release closes every codec pair. Safe to call more than once.
func (t *routeTable) release() {
	if t == nil {
		return
	}
	for _, r := range t.routes {
		r.codecs.close()
		r.codecs = nil
	}
}
