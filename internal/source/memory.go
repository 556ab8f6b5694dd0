package source

import "fmt"

// Memory is a Document held entirely in memory. Tests and tools that already
// have page geometry use it in place of a PDF.
type Memory struct {
	DocName string
	Pages   []Page
	Images  map[int]ImageData
}

func (m *Memory) Name() string  { return m.DocName }
func (m *Memory) NumPages() int { return len(m.Pages) }
func (m *Memory) Close() error  { return nil }

func (m *Memory) Page(n int) (Page, error) {
	if n < 1 || n > len(m.Pages) {
		return Page{}, fmt.Errorf("%w: %d", ErrPageOutOfRange, n)
	}
	p := m.Pages[n-1]
	if p.Number == 0 {
		p.Number = n
	}
	return p, nil
}

func (m *Memory) Image(handle int) (ImageData, error) {
	img, ok := m.Images[handle]
	if !ok {
		return ImageData{}, fmt.Errorf("%w: handle %d", ErrImageNotFound, handle)
	}
	return img, nil
}
