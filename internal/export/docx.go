package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/qbank/internal/bank"
)

// DOCXOptions configures DOCX.
type DOCXOptions struct {
	// ImageRoot is the directory asset srcs resolve against. Images are
	// embedded when their file exists there; otherwise the src is printed.
	ImageRoot string
}

// DOCX writes a printable review copy of the bank: each question with its
// options, images and answer.
func DOCX(w io.Writer, ds *bank.Dataset, opts DOCXOptions) error {
	doc := docx.New().WithDefaultTheme()

	title := ds.Meta.Slug
	if title == "" {
		title = ds.Meta.PDF
	}
	doc.AddParagraph().AddText(title).Size("36").Bold()
	if ds.Meta.PDF != "" {
		doc.AddParagraph().AddText(fmt.Sprintf("%s, %d questions", ds.Meta.PDF, len(ds.Questions))).Size("20")
	}

	for _, q := range ds.Questions {
		doc.AddParagraph().AddText(fmt.Sprintf("%d. %s", q.Number, q.Prompt)).Bold()
		for _, o := range q.Options {
			doc.AddParagraph().AddText(fmt.Sprintf("%s. %s", o.OriginalKey, o.Text))
		}
		for _, a := range q.Assets {
			p := doc.AddParagraph()
			if path := assetPath(opts.ImageRoot, a.Src); path != "" {
				if _, err := p.AddInlineDrawingFrom(path); err == nil {
					continue
				}
			}
			p.AddText("[image " + a.Src + "]").Color("808080")
		}
		ans := answerLabel(q)
		if ans == "" {
			ans = "?"
		}
		doc.AddParagraph().AddText("Answer: " + ans).Color("2E7D32")
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func assetPath(root, src string) string {
	if root == "" || src == "" {
		return ""
	}
	path := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(src, "/")))
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
