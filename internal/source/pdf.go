package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Options configures the PDF reader.
type Options struct {
	Lines LineOptions
}

// DefaultOptions returns the reader defaults.
func DefaultOptions() Options {
	return Options{Lines: DefaultLineOptions()}
}

// PDF reads text through ledongthuc/pdf and image objects through pdfcpu.
// Image handles are PDF object numbers.
type PDF struct {
	name    string
	path    string
	file    *os.File
	reader  *pdflib.Reader
	opts    Options
	cleanup func()

	imagesLoaded bool
	imagesErr    error
	images       map[int]ImageData
	resources    map[int]map[string]int // page -> XObject resource name -> object number
}

// OpenPDF opens the PDF at path.
func OpenPDF(path string, opts Options) (*PDF, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", filepath.Base(path), err)
	}
	return &PDF{
		name:   filepath.Base(path),
		path:   path,
		file:   f,
		reader: r,
		opts:   opts,
	}, nil
}

// FromReader spools r to a temp file and opens it. Close removes the file.
func FromReader(r io.Reader, name string, opts Options) (*PDF, error) {
	// ledongthuc/pdf and pdfcpu both want a seekable file.
	tmp, err := os.CreateTemp("", "qbank-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := OpenPDF(tmpPath, opts)
	if err != nil {
		os.Remove(tmpPath)
		return nil, err
	}
	doc.name = name
	doc.cleanup = func() { os.Remove(tmpPath) }
	return doc, nil
}

func (d *PDF) Name() string  { return d.name }
func (d *PDF) NumPages() int { return d.reader.NumPage() }

func (d *PDF) Close() error {
	err := d.file.Close()
	if d.cleanup != nil {
		d.cleanup()
	}
	return err
}

// Page reads the lines and image placements of page n (1-based).
func (d *PDF) Page(n int) (page Page, err error) {
	if n < 1 || n > d.NumPages() {
		return Page{}, fmt.Errorf("%w: %d", ErrPageOutOfRange, n)
	}
	if err := d.loadImages(); err != nil {
		return Page{}, err
	}

	// ledongthuc/pdf panics on some malformed objects.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read page %d: %v", n, r)
		}
	}()

	p := d.reader.Page(n)
	box := mediaBox(p)
	page = Page{Number: n, Width: box.Width(), Height: box.Height()}
	if p.V.IsNull() {
		return page, nil
	}

	content := p.Content()
	runs := make([]Run, 0, len(content.Text))
	for _, t := range content.Text {
		runs = append(runs, Run{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
	}
	page.Lines = BuildLines(runs, box, d.opts.Lines)
	page.Images = d.placements(p, n, box)
	return page, nil
}

// Image returns the bytes stored for an image object.
func (d *PDF) Image(handle int) (ImageData, error) {
	if err := d.loadImages(); err != nil {
		return ImageData{}, err
	}
	img, ok := d.images[handle]
	if !ok {
		return ImageData{}, fmt.Errorf("%w: object %d", ErrImageNotFound, handle)
	}
	return img, nil
}

// placements interprets the page content streams and records every image
// XObject painted, with the CTM in force at the Do operator. Form XObjects
// are not descended into.
func (d *PDF) placements(p pdflib.Page, pageNum int, box MediaBox) []Placement {
	xobjects := p.Resources().Key("XObject")
	if xobjects.IsNull() {
		return nil
	}

	t := newCTMTracker()
	interpret := func(strm pdflib.Value) {
		pdflib.Interpret(strm, func(stk *pdflib.Stack, op string) {
			n := stk.Len()
			args := make([]pdflib.Value, n)
			for i := n - 1; i >= 0; i-- {
				args[i] = stk.Pop()
			}
			switch op {
			case "q":
				t.Save()
			case "Q":
				t.Restore()
			case "cm":
				if len(args) == 6 {
					var m Matrix
					for i := range m {
						m[i] = args[i].Float64()
					}
					t.Concat(m)
				}
			case "Do":
				if len(args) == 1 {
					name := args[0].Name()
					if xobjects.Key(name).Key("Subtype").Name() == "Image" {
						t.Draw(name)
					}
				}
			}
		})
	}

	contents := p.V.Key("Contents")
	if contents.Kind() == pdflib.Array {
		for i := 0; i < contents.Len(); i++ {
			interpret(contents.Index(i))
		}
	} else {
		interpret(contents)
	}

	names := d.resources[pageNum]
	var out []Placement
	for _, dr := range t.draws {
		handle, ok := names[dr.Name]
		if !ok {
			continue
		}
		out = append(out, Placement{BBox: box.ToPage(dr.CTM.UnitBounds()), Handle: handle})
	}
	return out
}

// loadImages extracts every image object once. pdfcpu renders each object to
// its natural file type, which becomes the format hint.
func (d *PDF) loadImages() error {
	if d.imagesLoaded {
		return d.imagesErr
	}
	d.imagesLoaded = true
	d.images = make(map[int]ImageData)
	d.resources = make(map[int]map[string]int)

	f, err := os.Open(d.path)
	if err != nil {
		d.imagesErr = fmt.Errorf("open pdf for images: %w", err)
		return d.imagesErr
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := api.ExtractImagesRaw(f, nil, conf)
	if err != nil {
		d.imagesErr = fmt.Errorf("extract images: %w", err)
		return d.imagesErr
	}
	for _, m := range pages {
		for objNr, img := range m {
			if _, seen := d.images[objNr]; !seen && img.Reader != nil {
				data, err := io.ReadAll(img)
				if err != nil {
					d.imagesErr = fmt.Errorf("read image object %d: %w", objNr, err)
					return d.imagesErr
				}
				d.images[objNr] = ImageData{Bytes: data, Format: strings.ToLower(img.FileType)}
			}
			if d.resources[img.PageNr] == nil {
				d.resources[img.PageNr] = make(map[string]int)
			}
			d.resources[img.PageNr][img.Name] = objNr
		}
	}
	return nil
}

// mediaBox finds the page MediaBox, following Parent for inherited boxes.
// US Letter is assumed when none is present.
func mediaBox(p pdflib.Page) MediaBox {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.Kind() == pdflib.Array && mb.Len() == 4 {
			box := MediaBox{
				LLX: mb.Index(0).Float64(),
				LLY: mb.Index(1).Float64(),
				URX: mb.Index(2).Float64(),
				URY: mb.Index(3).Float64(),
			}
			if box.URX < box.LLX {
				box.LLX, box.URX = box.URX, box.LLX
			}
			if box.URY < box.LLY {
				box.LLY, box.URY = box.URY, box.LLY
			}
			return box
		}
	}
	return MediaBox{URX: 612, URY: 792}
}
