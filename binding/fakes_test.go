package binding

import (
	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/replica"
)

type setTextCall struct {
	Range buffer.Range
	Text  string
}

type fakeBufferProxy struct {
	id       replica.ProxyID
	uri      string
	text     string
	delegate replica.BufferProxyDelegate
	calls    []setTextCall

	// onSetText runs inside SetTextInRange, after the call is recorded.
	onSetText func()
}

func (p *fakeBufferProxy) ID() replica.ProxyID                        { return p.id }
func (p *fakeBufferProxy) URI() string                                { return p.uri }
func (p *fakeBufferProxy) Text() string                               { return p.text }
func (p *fakeBufferProxy) SetDelegate(d replica.BufferProxyDelegate)  { p.delegate = d }
func (p *fakeBufferProxy) SetURI(uri string)                          { p.uri = uri }
func (p *fakeBufferProxy) Dispose()                                   {}
func (p *fakeBufferProxy) SetTextInRange(r buffer.Range, text string) {
	p.calls = append(p.calls, setTextCall{r, text})
	if p.onSetText != nil {
		p.onSetText()
	}
}

type fakeEditorProxy struct {
	id         replica.ProxyID
	bp         replica.BufferProxy
	delegate   replica.EditorProxyDelegate
	selections map[replica.SiteID]replica.Selection
	updates    []replica.Selection
}

func (p *fakeEditorProxy) ID() replica.ProxyID                       { return p.id }
func (p *fakeEditorProxy) BufferProxy() replica.BufferProxy          { return p.bp }
func (p *fakeEditorProxy) SetDelegate(d replica.EditorProxyDelegate) { p.delegate = d }
func (p *fakeEditorProxy) UpdateSelections(sel replica.Selection)    { p.updates = append(p.updates, sel) }
func (p *fakeEditorProxy) Dispose()                                  {}
func (p *fakeEditorProxy) SelectionsBySite() map[replica.SiteID]replica.Selection {
	out := make(map[replica.SiteID]replica.Selection, len(p.selections))
	for k, v := range p.selections {
		out[k] = v
	}
	return out
}

func pos(row, col int) buffer.Pos { return buffer.Pos{Row: row, GraphemeCol: col} }

func rng(start, end buffer.Pos) buffer.Range { return buffer.Range{Start: start, End: end} }

func insert(b *buffer.Buffer, p buffer.Pos, text string) {
	b.Apply(buffer.TextEdit{Range: rng(p, p), Text: text})
}
