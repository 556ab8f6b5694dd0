// Package binder attaches page images to the questions whose text they
// overlap.
package binder

import (
	"log/slog"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/layout"
	"github.com/dgallion1/qbank/internal/source"
)

// DefaultOverlapThreshold is the minimum share of an image's area that must
// fall inside a question region for the image to bind to it.
const DefaultOverlapThreshold = 0.12

// Options configures a Binder.
type Options struct {
	Threshold float64 // DefaultOverlapThreshold when zero
}

// Binder matches placements to question regions on the same page and column.
type Binder struct {
	store     *AssetStore
	threshold float64
	log       *slog.Logger
}

// New returns a Binder writing through store.
func New(store *AssetStore, opts Options, log *slog.Logger) *Binder {
	th := opts.Threshold
	if th <= 0 {
		th = DefaultOverlapThreshold
	}
	if log == nil {
		log = slog.Default()
	}
	return &Binder{store: store, threshold: th, log: log}
}

type candidate struct {
	question int
	column   int
	bbox     bank.BBox
}

// Bind appends an Asset to the best-overlapping question for every accepted
// placement and returns how many were bound. Placements with no area, no
// same-column candidate, or a best overlap below the threshold are dropped.
// Ties go to the earliest question.
func (b *Binder) Bind(questions []bank.Question, pages []source.Page, images source.ImageSource) (int, error) {
	byPage := make(map[int][]candidate)
	for qi, q := range questions {
		for _, r := range q.Regions {
			byPage[r.Page] = append(byPage[r.Page], candidate{question: qi, column: r.Column, bbox: r.BBox})
		}
	}

	bound := 0
	for _, p := range pages {
		for _, pl := range p.Images {
			area := pl.BBox.Area()
			if area <= 0 {
				b.log.Debug("image skipped: empty area", "page", p.Number, "handle", pl.Handle)
				continue
			}
			col := layout.Column(pl.BBox.X0(), p.Width)

			best, bestRatio := -1, 0.0
			for _, c := range byPage[p.Number] {
				if c.column != col {
					continue
				}
				inter := pl.BBox.IntersectionArea(c.bbox)
				if inter <= 0 {
					continue
				}
				if ratio := inter / area; best < 0 || ratio > bestRatio {
					best, bestRatio = c.question, ratio
				}
			}
			if best < 0 || bestRatio < b.threshold {
				b.log.Debug("image skipped: no region overlap",
					"page", p.Number, "handle", pl.Handle, "best_ratio", bestRatio)
				continue
			}

			src, hash, ok, err := b.store.Resolve(images, pl.Handle)
			if err != nil {
				return bound, err
			}
			if !ok {
				continue
			}
			q := &questions[best]
			q.Assets = append(q.Assets, bank.Asset{
				Kind: "image",
				Src:  src,
				Page: p.Number,
				BBox: pl.BBox,
				Hash: hash,
			})
			bound++
		}
	}
	return bound, nil
}
