// ABOUTME: In-memory container used by media tests
// ABOUTME: Records reads and seeks so tests can check laziness and positioning
package media

import "io"

type fakeStream struct {
	index    int
	timeBase Rational
	duration int64
	params   CodecParameters
}

func (s *fakeStream) Index() int                       { return s.index }
func (s *fakeStream) TimeBase() Rational               { return s.timeBase }
func (s *fakeStream) Duration() int64                  { return s.duration }
func (s *fakeStream) CodecParameters() CodecParameters { return s.params }

type seekCall struct {
	index          int
	ts, minTs, max int64
}

type fakeContainer struct {
	streams  []Stream
	packets  []Packet
	pos      int
	reads    int
	readErr  error
	seeks    []seekCall
	seekErr  error
	released int
}

func (c *fakeContainer) Streams() []Stream { return c.streams }

func (c *fakeContainer) Stream(index int) (Stream, error) {
	if index < 0 || index >= len(c.streams) {
		return nil, ErrStreamNotFound
	}
	return c.streams[index], nil
}

func (c *fakeContainer) ReadPacket() (Packet, error) {
	c.reads++
	if c.readErr != nil && c.pos == len(c.packets) {
		return nil, c.readErr
	}
	if c.pos >= len(c.packets) {
		return nil, io.EOF
	}
	p := c.packets[c.pos]
	c.pos++
	return p, nil
}

func (c *fakeContainer) Seek(index int, ts, minTs, maxTs int64) error {
	c.seeks = append(c.seeks, seekCall{index: index, ts: ts, minTs: minTs, max: maxTs})
	return c.seekErr
}

func (c *fakeContainer) Close() error { return nil }

type releasablePacket struct {
	RawPacket
	owner *fakeContainer
}

func (p *releasablePacket) Release() { p.owner.released++ }

func audioStream(index int, params CodecParameters) *fakeStream {
	params.MediaType = MediaTypeAudio
	return &fakeStream{index: index, timeBase: NewRational(1, 1000), duration: 60000, params: params}
}

func packet(index int, pts int64) *RawPacket {
	return &RawPacket{Index: index, Pts: pts, HasPts: true}
}
