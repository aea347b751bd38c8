package transport

import "io"

// ProgressFunc receives upload progress as a whole percentage in [0, 100].
// Values are non-decreasing; a final call with 100 is not guaranteed.
type ProgressFunc func(percent int)

// progressReader counts bytes handed to the HTTP transport and reports
// rounded percentages. Each distinct percentage is reported once, so the
// sequence seen by the callback is strictly increasing.
type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	last  int
	fn    ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, last: -1, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.fn != nil && p.total > 0 {
			// round(sent*100/total) in integer arithmetic
			percent := int((p.sent*100 + p.total/2) / p.total)
			if percent > 100 {
				percent = 100
			}
			if percent > p.last {
				p.last = percent
				p.fn(percent)
			}
		}
	}
	return n, err
}
