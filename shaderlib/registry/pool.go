// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

// Pool hands out reusable scratch buffers to the library builder while it
// assembles an ID group before handing the finished slice to a GetOrAdd*
// call. Every buffer borrowed must be returned; the builder panics at
// GetDefinition or Clear while any are outstanding (the "scratch discipline"
// invariant). The registry itself does not check the pool.
type Pool struct {
	idBufs   [][]uint32
	byteBufs [][]byte
	borrowed int
}

// BorrowIDs returns a zero-length []uint32 scratch buffer, reusing a
// previously returned one when available.
func (p *Pool) BorrowIDs() []uint32 {
	p.borrowed++
	n := len(p.idBufs)
	if n == 0 {
		return nil
	}
	buf := p.idBufs[n-1]
	p.idBufs = p.idBufs[:n-1]
	return buf[:0]
}

// ReturnIDs gives a buffer borrowed from BorrowIDs back to the pool.
func (p *Pool) ReturnIDs(buf []uint32) {
	p.borrowed--
	p.idBufs = append(p.idBufs, buf)
}

// BorrowBytes returns a zero-length []byte scratch buffer.
func (p *Pool) BorrowBytes() []byte {
	p.borrowed++
	n := len(p.byteBufs)
	if n == 0 {
		return nil
	}
	buf := p.byteBufs[n-1]
	p.byteBufs = p.byteBufs[:n-1]
	return buf[:0]
}

// ReturnBytes gives a buffer borrowed from BorrowBytes back to the pool.
func (p *Pool) ReturnBytes(buf []byte) {
	p.borrowed--
	p.byteBufs = append(p.byteBufs, buf)
}

// Outstanding reports how many buffers are currently borrowed and not yet
// returned.
func (p *Pool) Outstanding() int { return p.borrowed }
