package stellar

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"unicode"
)

// ErrZeroArea is returned when text is laid out on a canvas with no area.
var ErrZeroArea = errors.New("stellar: zero-area canvas")

// FormationResolver supplies alternate target points used by Breathing
// reform steps. Returning nil for a formation leaves every particle
// swirling during that step.
type FormationResolver interface {
	Formation(i, w, h int) []Vec2
}

// Layout is the particle and line set for one canvas size.
type Layout struct {
	Width, Height int
	FontSize      float64

	Particles []Particle
	Lines     []ConstellationLine

	// Glyphs is the number of non-space characters laid out.
	Glyphs int
	// Warnings lists characters that were skipped.
	Warnings []string
}

// Layouter turns configured text into particles and lines. Layout is
// deterministic for a given config, seed and canvas size.
type Layouter struct {
	cfg        *Config
	raster     *GlyphRasterizer
	formations FormationResolver
}

// NewLayouter creates a Layouter. A nil formations disables reformation.
func NewLayouter(cfg *Config, raster *GlyphRasterizer, formations FormationResolver) *Layouter {
	return &Layouter{cfg: cfg, raster: raster, formations: formations}
}

// glyphSpan records the particle range of one laid-out character.
type glyphSpan struct {
	start, end int
	emphasized bool
}

// Layout lays out the configured text on a w×h canvas.
func (l *Layouter) Layout(w, h int) (*Layout, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrZeroArea, w, h)
	}
	l.raster.Purge()
	cfg := l.cfg
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(w)<<32|uint64(h)))
	out := &Layout{Width: w, Height: h}

	lines := strings.Split(cfg.Text, "\n")
	size := fitFontSize(l.raster, lines, &cfg.Glyph, w, h)
	out.FontSize = size

	lineHeight := size * cfg.Glyph.LineSpacing
	top := (float64(h)-lineHeight*float64(len(lines)))/2 + (lineHeight-size)/2
	ascent := l.raster.Ascent(size)
	center := Vec2{float64(w) / 2, float64(h) / 2}

	keys := make(map[string]bool, len(cfg.KeyWords))
	for _, k := range cfg.KeyWords {
		keys[strings.ToLower(k)] = true
	}
	special := strings.ToLower(cfg.SpecialWord)

	var spans []glyphSpan
	var words [][]int // glyph indices per key-word occurrence

	for li, line := range lines {
		pen := Vec2{
			X: (float64(w) - measureLine(l.raster, line, size)) / 2,
			Y: top + float64(li)*lineHeight + ascent,
		}
		var prev rune
		var word []int
		for _, tok := range splitWords(line) {
			pen.X += float64(tok.gap) * l.raster.Advance(' ', size)
			bare := strings.ToLower(strings.TrimFunc(tok.text, isPunct))
			emph := keys[bare]
			spec := bare != "" && bare == special
			word = word[:0]
			for _, r := range tok.text {
				if prev != 0 {
					pen.X += l.raster.Kern(prev, r, size)
				}
				prev = r
				adv := l.raster.Advance(r, size)
				pts := l.raster.Sample(r, size)
				if len(pts) == 0 {
					out.Warnings = append(out.Warnings, fmt.Sprintf("no points for %q in %q", r, tok.text))
					pen.X += adv
					continue
				}
				span := glyphSpan{start: len(out.Particles), emphasized: emph || spec}
				gi := out.Glyphs
				for _, off := range pts {
					out.Particles = append(out.Particles, newParticle(rng, cfg, center, pen.Add(off), r, tok.text, gi, emph, spec))
				}
				span.end = len(out.Particles)
				spans = append(spans, span)
				if emph {
					word = append(word, len(spans)-1)
				}
				out.Glyphs++
				pen.X += adv
			}
			if len(word) > 1 {
				words = append(words, append([]int(nil), word...))
			}
			prev = 0
		}
	}

	out.Lines = buildLines(rng, &cfg.Line, spans, words)
	l.assignFormations(rng, out.Particles, w, h)
	return out, nil
}

func newParticle(rng *rand.Rand, cfg *Config, center, target Vec2, r rune, word string, glyph int, emph, spec bool) Particle {
	a := rng.Float64() * 2 * math.Pi
	size := cfg.Particle.BaseSize * (0.8 + 0.4*rng.Float64())
	switch {
	case spec:
		size *= cfg.Particle.SpecialScale
	case emph:
		size *= cfg.Particle.EmphasisScale
	}
	jitter := Vec2{rng.Float64() - 0.5, rng.Float64() - 0.5}.Scale(8)
	p := Particle{
		Origin:     center.Add(jitter),
		Target:     target,
		Explosion:  Vec2{math.Cos(a), math.Sin(a)},
		BaseSize:   size,
		Emphasized: emph,
		Special:    spec,
		Char:       r,
		Word:       word,
		Glyph:      glyph,
		seed:       rng.Float64() * 2 * math.Pi,
		sinceFlare: rng.Float64() * float64(cfg.Flare.CooldownMS) / 1000,
	}
	p.X, p.Y = p.Origin.X, p.Origin.Y
	p.Size = size
	return p
}

// buildLines joins consecutive characters of each key word with a primary
// line and scatters mini lines inside each emphasized character.
func buildLines(rng *rand.Rand, cfg *LineConfig, spans []glyphSpan, words [][]int) []ConstellationLine {
	var out []ConstellationLine
	anchor := func(s glyphSpan) int { return s.start + (s.end-s.start)/2 }

	n := 0
	for _, w := range words {
		for i := 1; i < len(w); i++ {
			out = append(out, ConstellationLine{
				Start: anchor(spans[w[i-1]]),
				End:   anchor(spans[w[i]]),
				Kind:  LinePrimary,
				Bend:  cfg.Bend.Random(rng),
				Delay: float64(n) * cfg.Stagger,
				Seed:  rng.Float64() * 2 * math.Pi,
			})
			n++
		}
	}

	n = 0
	for _, s := range spans {
		count := s.end - s.start
		if !s.emphasized || count < 2 {
			continue
		}
		for k := 0; k < cfg.MiniPerGlyph; k++ {
			a := s.start + rng.IntN(count)
			b := s.start + rng.IntN(count-1)
			if b >= a {
				b++
			}
			out = append(out, ConstellationLine{
				Start: a,
				End:   b,
				Kind:  LineMini,
				Bend:  cfg.Bend.Random(rng) * 0.5,
				Delay: float64(n%8) * cfg.Stagger,
				Seed:  rng.Float64() * 2 * math.Pi,
			})
			n++
		}
	}
	return out
}

// assignFormations hands each formation's points to a random subset of
// particles. Particles left over do not take part in that formation.
func (l *Layouter) assignFormations(rng *rand.Rand, particles []Particle, w, h int) {
	if l.formations == nil || len(particles) == 0 {
		return
	}
	for f := range formationSlots(l.cfg.Particle.Breathing) {
		pts := l.formations.Formation(f, w, h)
		if len(pts) == 0 {
			continue
		}
		perm := rng.Perm(len(particles))
		n := min(len(pts), len(particles))
		for k := 0; k < n; k++ {
			// Subsample evenly when the formation has more points.
			particles[perm[k]].SetAlt(f, pts[k*len(pts)/n])
		}
	}
}

// formationSlots returns how many formation indices the reform steps use.
func formationSlots(steps []BreathStep) int {
	n := 0
	for _, s := range steps {
		if s.Kind == StepReform {
			n = max(n, s.Formation+1)
		}
	}
	return min(n, maxFormations)
}

// WordFormations resolves each configured formation word into the sampled
// points of that word, centered on the canvas.
type WordFormations struct {
	Words  []string
	Raster *GlyphRasterizer
	Glyph  GlyphConfig
}

// Formation implements FormationResolver.
func (f *WordFormations) Formation(i, w, h int) []Vec2 {
	if i < 0 || i >= len(f.Words) || f.Words[i] == "" {
		return nil
	}
	word := f.Words[i]
	size := fitFontSize(f.Raster, []string{word}, &f.Glyph, w, h)
	pen := Vec2{
		X: (float64(w) - measureLine(f.Raster, word, size)) / 2,
		Y: (float64(h)-size)/2 + f.Raster.Ascent(size),
	}
	var pts []Vec2
	var prev rune
	for _, r := range word {
		if prev != 0 {
			pen.X += f.Raster.Kern(prev, r, size)
		}
		prev = r
		for _, off := range f.Raster.Sample(r, size) {
			pts = append(pts, pen.Add(off))
		}
		pen.X += f.Raster.Advance(r, size)
	}
	return pts
}

// fitFontSize picks a whole-pixel font size from the canvas width, then
// shrinks it so the widest line fits 90% of the width and the block fits
// 90% of the height.
func fitFontSize(raster *GlyphRasterizer, lines []string, cfg *GlyphConfig, w, h int) float64 {
	size := math.Min(math.Max(cfg.FontScale*float64(w), cfg.MinFontSize), cfg.MaxFontSize)
	widest := 0.0
	for _, line := range lines {
		widest = math.Max(widest, measureLine(raster, line, size))
	}
	limit := 0.9 * float64(w)
	if widest > limit {
		size *= limit / widest
	}
	spacing := cfg.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	if block := size * spacing * float64(len(lines)); block > 0.9*float64(h) {
		size *= 0.9 * float64(h) / block
	}
	return math.Max(1, math.Floor(size))
}

// measureLine returns the width the pen covers laying out line at size.
// Whitespace advances by a space and breaks kerning; trailing whitespace
// is not counted.
func measureLine(raster *GlyphRasterizer, line string, size float64) float64 {
	width := 0.0
	var prev rune
	for _, r := range strings.TrimRightFunc(line, unicode.IsSpace) {
		if unicode.IsSpace(r) {
			width += raster.Advance(' ', size)
			prev = 0
			continue
		}
		if prev != 0 {
			width += raster.Kern(prev, r, size)
		}
		width += raster.Advance(r, size)
		prev = r
	}
	return width
}

type wordToken struct {
	text string
	gap  int // spaces preceding the word
}

// splitWords splits line on spaces, recording the run length before each
// word so the pen can advance over it.
func splitWords(line string) []wordToken {
	var out []wordToken
	gap := 0
	start := -1
	for i, r := range line {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, wordToken{line[start:i], gap})
				start, gap = -1, 0
			}
			gap++
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, wordToken{line[start:], gap})
	}
	return out
}

func isPunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
