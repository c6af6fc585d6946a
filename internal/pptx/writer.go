// Package pptx writes minimal PresentationML packages. A .pptx file is a
// zip archive of XML parts; this writer emits only what PowerPoint needs
// to open a deck of free-form shapes: the presentation part, one blank
// master/layout pair with a shared theme, the slides themselves, optional
// speaker notes, and embedded PNG media.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// EMUPerInch is the OOXML coordinate unit, English Metric Units per inch.
const EMUPerInch = 914400

const emuPerPoint = 12700

// Inches converts inches to EMU.
func Inches(v float64) int64 {
	return int64(math.Round(v * EMUPerInch))
}

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const xmlnsAttrs = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

const (
	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeNotesMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster"
	relTypeSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeNotesSlide     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relTypeTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// Shape is one drawable element on a slide. Shapes render in the order
// they were added, back to front.
type Shape interface {
	isShape()
}

// Rect is a solid-filled rectangle, optionally stroked.
type Rect struct {
	X, Y, W, H   int64   // EMU
	FillHex      string  // RRGGBB
	Transparency float64 // fill transparency, 0 opaque .. 1 invisible
	LineHex      string  // RRGGBB border color, empty for no border
	LineWidthPt  float64 // border width in points
}

// Picture places a PNG from disk. Height follows the image aspect ratio.
type Picture struct {
	Path string
	X, Y int64 // EMU
	W    int64 // EMU
}

// Paragraph is a single styled paragraph inside a text box.
type Paragraph struct {
	Text          string
	SizePt        float64
	Bold          bool
	ColorHex      string // RRGGBB
	Center        bool
	SpaceBeforePt float64
	LineSpacing   float64 // multiple of single spacing, 0 for default
}

// TextBox is an unfilled box of paragraphs.
type TextBox struct {
	X, Y, W, H   int64 // EMU
	Paragraphs   []Paragraph
	WordWrap     bool
	AnchorMiddle bool
}

func (Rect) isShape()    {}
func (Picture) isShape() {}
func (TextBox) isShape() {}

// Slide collects shapes and optional speaker notes.
type Slide struct {
	Shapes []Shape
	Notes  string
}

func (s *Slide) AddRect(r Rect)       { s.Shapes = append(s.Shapes, r) }
func (s *Slide) AddPicture(p Picture) { s.Shapes = append(s.Shapes, p) }
func (s *Slide) AddTextBox(t TextBox) { s.Shapes = append(s.Shapes, t) }

// Presentation is an in-memory deck ready to be serialized.
type Presentation struct {
	SlideWidth  int64 // EMU
	SlideHeight int64 // EMU
	slides      []*Slide
}

// New creates an empty presentation with the given slide size in EMU.
func New(widthEMU, heightEMU int64) *Presentation {
	return &Presentation{SlideWidth: widthEMU, SlideHeight: heightEMU}
}

// AddSlide appends a blank slide and returns it for population.
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{}
	p.slides = append(p.slides, s)
	return s
}

// SlideCount returns the number of slides added so far.
func (p *Presentation) SlideCount() int {
	return len(p.slides)
}

type relEntry struct {
	id     string
	relTyp string
	target string
}

type relTable struct {
	entries []relEntry
}

func (r *relTable) add(relTyp, target string) string {
	id := fmt.Sprintf("rId%d", len(r.entries)+1)
	r.entries = append(r.entries, relEntry{id: id, relTyp: relTyp, target: target})
	return id
}

func (r *relTable) xml() string {
	var b strings.Builder
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, e := range r.entries {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, e.id, e.relTyp, e.target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// WriteFile serializes the presentation as a .pptx package at path.
func (p *Presentation) WriteFile(path string) error {
	if len(p.slides) == 0 {
		return errors.New("presentation has no slides")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	zw := zip.NewWriter(file)

	// Media parts are registered while slides render and copied in at
	// the end; the same source file embeds once.
	media := make(map[string]string)
	var mediaOrder []string
	registerMedia := func(src string) (string, error) {
		if name, ok := media[src]; ok {
			return name, nil
		}
		name := fmt.Sprintf("image%d.png", len(media)+1)
		media[src] = name
		mediaOrder = append(mediaOrder, src)
		return name, nil
	}

	type renderedSlide struct {
		content  string
		rels     *relTable
		notesNum int
	}

	rendered := make([]renderedSlide, len(p.slides))
	notesCount := 0
	for i, s := range p.slides {
		rels := &relTable{}
		rels.add(relTypeSlideLayout, "../slideLayouts/slideLayout1.xml")
		content, err := slideXML(s, rels, registerMedia)
		if err != nil {
			zw.Close()
			return err
		}
		notesNum := 0
		if s.Notes != "" {
			notesCount++
			notesNum = notesCount
			rels.add(relTypeNotesSlide, fmt.Sprintf("../notesSlides/notesSlide%d.xml", notesNum))
		}
		rendered[i] = renderedSlide{content: content, rels: rels, notesNum: notesNum}
	}

	rootRels := &relTable{}
	rootRels.add(relTypeOfficeDocument, "ppt/presentation.xml")

	presRels := &relTable{}
	presRels.add(relTypeSlideMaster, "slideMasters/slideMaster1.xml")
	presRels.add(relTypeNotesMaster, "notesMasters/notesMaster1.xml")
	for i := range p.slides {
		presRels.add(relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
	}

	masterRels := &relTable{}
	masterRels.add(relTypeSlideLayout, "../slideLayouts/slideLayout1.xml")
	masterRels.add(relTypeTheme, "../theme/theme1.xml")

	layoutRels := &relTable{}
	layoutRels.add(relTypeSlideMaster, "../slideMasters/slideMaster1.xml")

	notesMasterRels := &relTable{}
	notesMasterRels.add(relTypeTheme, "../theme/theme1.xml")

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", p.contentTypesXML(notesCount)},
		{"_rels/.rels", rootRels.xml()},
		{"ppt/presentation.xml", p.presentationXML()},
		{"ppt/_rels/presentation.xml.rels", presRels.xml()},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", masterRels.xml()},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRels.xml()},
		{"ppt/theme/theme1.xml", themeXML},
		{"ppt/notesMasters/notesMaster1.xml", notesMasterXML},
		{"ppt/notesMasters/_rels/notesMaster1.xml.rels", notesMasterRels.xml()},
	}

	for i, rs := range rendered {
		parts = append(parts,
			struct{ name, content string }{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), rs.content},
			struct{ name, content string }{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rs.rels.xml()},
		)
		if rs.notesNum > 0 {
			notesRels := &relTable{}
			notesRels.add(relTypeNotesMaster, "../notesMasters/notesMaster1.xml")
			notesRels.add(relTypeSlide, fmt.Sprintf("../slides/slide%d.xml", i+1))
			parts = append(parts,
				struct{ name, content string }{fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", rs.notesNum), notesSlideXML(p.slides[i].Notes)},
				struct{ name, content string }{fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", rs.notesNum), notesRels.xml()},
			)
		}
	}

	for _, part := range parts {
		if err := writePart(zw, part.name, part.content); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write part %s: %w", part.name, err)
		}
	}

	for _, src := range mediaOrder {
		if err := copyMedia(zw, "ppt/media/"+media[src], src); err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return nil
}

func writePart(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, xmlDecl+content)
	return err
}

func copyMedia(zw *zip.Writer, name, src string) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to write media %s: %w", name, err)
	}
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to embed image %s: %w", filepath.Base(src), err)
	}
	return nil
}

func (p *Presentation) contentTypesXML(notesCount int) string {
	var b strings.Builder
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/notesMasters/notesMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"/>`)
	for i := range p.slides {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	for n := 1; n <= notesCount; n++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, n)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func (p *Presentation) presentationXML() string {
	var b strings.Builder
	b.WriteString(`<p:presentation ` + xmlnsAttrs + `>`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:notesMasterIdLst><p:notesMasterId r:id="rId2"/></p:notesMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := range p.slides {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, 3+i)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, p.SlideWidth, p.SlideHeight)
	fmt.Fprintf(&b, `<p:notesSz cx="%d" cy="%d"/>`, p.SlideHeight, p.SlideWidth)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

// emptyTree is the mandatory group shape header of every shape tree.
const emptyTree = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`

const clrMap = `<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" ` +
	`accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`

const slideMasterXML = `<p:sldMaster ` + xmlnsAttrs + `>` +
	`<p:cSld><p:spTree>` + emptyTree + `</p:spTree></p:cSld>` +
	clrMap +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideLayoutXML = `<p:sldLayout ` + xmlnsAttrs + ` type="blank">` +
	`<p:cSld name="Blank"><p:spTree>` + emptyTree + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

const notesMasterXML = `<p:notesMaster ` + xmlnsAttrs + `>` +
	`<p:cSld><p:spTree>` + emptyTree + `</p:spTree></p:cSld>` +
	clrMap +
	`</p:notesMaster>`

// themeXML is a minimal Office theme; decks here color every shape
// explicitly, so only the scheme skeleton matters.
const themeXML = `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office Theme">` +
	`<a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="44546A"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4472C4"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office">` +
	`<a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements>` +
	`</a:theme>`

func slideXML(s *Slide, rels *relTable, registerMedia func(string) (string, error)) (string, error) {
	var b strings.Builder
	b.WriteString(`<p:sld ` + xmlnsAttrs + `>`)
	b.WriteString(`<p:cSld><p:spTree>` + emptyTree)

	id := 2
	for _, shape := range s.Shapes {
		switch sh := shape.(type) {
		case Rect:
			b.WriteString(rectXML(id, sh))
		case Picture:
			partName, err := registerMedia(sh.Path)
			if err != nil {
				return "", err
			}
			w, h, err := imageSize(sh.Path)
			if err != nil {
				return "", err
			}
			cy := sh.W
			if w > 0 {
				cy = int64(float64(sh.W) * float64(h) / float64(w))
			}
			relID := rels.add(relTypeImage, "../media/"+partName)
			b.WriteString(pictureXML(id, relID, sh, cy))
		case TextBox:
			b.WriteString(textBoxXML(id, sh))
		}
		id++
	}

	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String(), nil
}

func rectXML(id int, r Rect) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Rectangle %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr>`, id, id)
	fmt.Fprintf(&b, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, r.X, r.Y, r.W, r.H)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	b.WriteString(solidFill(r.FillHex, r.Transparency))
	if r.LineHex != "" {
		fmt.Fprintf(&b, `<a:ln w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:ln>`,
			int64(math.Round(r.LineWidthPt*emuPerPoint)), r.LineHex)
	} else {
		b.WriteString(`<a:ln><a:noFill/></a:ln>`)
	}
	b.WriteString(`</p:spPr><p:txBody><a:bodyPr/><a:lstStyle/><a:p/></p:txBody></p:sp>`)
	return b.String()
}

func pictureXML(id int, relID string, pic Picture, cy int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`, id, id)
	fmt.Fprintf(&b, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, relID)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, pic.X, pic.Y, pic.W, cy)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
	return b.String()
}

func textBoxXML(id int, tb TextBox) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, tb.X, tb.Y, tb.W, tb.H)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)

	b.WriteString(`<p:txBody><a:bodyPr`)
	if tb.WordWrap {
		b.WriteString(` wrap="square"`)
	}
	if tb.AnchorMiddle {
		b.WriteString(` anchor="ctr"`)
	}
	b.WriteString(`/><a:lstStyle/>`)

	for _, para := range tb.Paragraphs {
		b.WriteString(paragraphXML(para))
	}

	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

func paragraphXML(para Paragraph) string {
	var b strings.Builder
	b.WriteString(`<a:p>`)

	var props strings.Builder
	if para.LineSpacing > 0 {
		fmt.Fprintf(&props, `<a:lnSpc><a:spcPct val="%d"/></a:lnSpc>`, int64(math.Round(para.LineSpacing*100000)))
	}
	if para.SpaceBeforePt > 0 {
		fmt.Fprintf(&props, `<a:spcBef><a:spcPts val="%d"/></a:spcBef>`, int64(math.Round(para.SpaceBeforePt*100)))
	}
	if para.Center || props.Len() > 0 {
		b.WriteString(`<a:pPr`)
		if para.Center {
			b.WriteString(` algn="ctr"`)
		}
		b.WriteString(`>`)
		b.WriteString(props.String())
		b.WriteString(`</a:pPr>`)
	}

	b.WriteString(`<a:r><a:rPr lang="en-US"`)
	if para.SizePt > 0 {
		fmt.Fprintf(&b, ` sz="%d"`, int64(math.Round(para.SizePt*100)))
	}
	if para.Bold {
		b.WriteString(` b="1"`)
	}
	b.WriteString(`>`)
	if para.ColorHex != "" {
		fmt.Fprintf(&b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, para.ColorHex)
	}
	b.WriteString(`</a:rPr>`)
	fmt.Fprintf(&b, `<a:t>%s</a:t></a:r></a:p>`, escape(para.Text))
	return b.String()
}

// notesSlideXML wraps the notes text in the body placeholder PowerPoint
// expects; line breaks become separate paragraphs.
func notesSlideXML(notes string) string {
	var b strings.Builder
	b.WriteString(`<p:notes ` + xmlnsAttrs + `>`)
	b.WriteString(`<p:cSld><p:spTree>` + emptyTree)
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder 1"/>`)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`)
	b.WriteString(`<p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>`)
	b.WriteString(`<p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, line := range strings.Split(notes, "\n") {
		fmt.Fprintf(&b, `<a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p>`, escape(line))
	}
	b.WriteString(`</p:txBody></p:sp>`)
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:notes>`)
	return b.String()
}

func solidFill(hex string, transparency float64) string {
	if transparency > 0 {
		alpha := int64(math.Round((1 - transparency) * 100000))
		return fmt.Sprintf(`<a:solidFill><a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr></a:solidFill>`, hex, alpha)
	}
	return fmt.Sprintf(`<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, hex)
}

func escape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}
	return cfg.Width, cfg.Height, nil
}
