package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	MediaType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"

	relBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`
)

var mediaContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// Save writes the presentation to path.
func (p *Presentation) Save(path string) error {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// WriteTo serializes the package as a zip archive.
func (p *Presentation) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	media := p.assignMedia()

	parts := []part{
		{"[Content_Types].xml", p.contentTypesXML()},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", p.corePropsXML()},
		{"docProps/app.xml", p.appPropsXML()},
		{"ppt/presentation.xml", p.presentationXML()},
		{"ppt/_rels/presentation.xml.rels", p.presentationRelsXML()},
		{"ppt/presProps.xml", presPropsXML},
		{"ppt/viewProps.xml", viewPropsXML},
		{"ppt/tableStyles.xml", tableStylesXML},
		{"ppt/theme/theme1.xml", themeXML(p.MajorFont, p.MinorFont)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML()},
	}
	for _, l := range []Layout{LayoutTitle, LayoutTitleAndContent, LayoutBlank} {
		n := int(l) + 1
		parts = append(parts,
			part{fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", n), slideLayoutXML(l)},
			part{fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", n), slideLayoutRelsXML()},
		)
	}
	for i, s := range p.slides {
		n := i + 1
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", n), slideXML(s)},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), slideRelsXML(s)},
		)
	}

	for _, pt := range parts {
		if err := writeZipTextFile(zw, pt.name, pt.content); err != nil {
			_ = zw.Close()
			return cw.n, err
		}
	}
	for _, m := range media {
		if err := writeZipBytes(zw, "ppt/media/"+m.Name, m.Data); err != nil {
			_ = zw.Close()
			return cw.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type part struct {
	name    string
	content string
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// assignMedia names every embedded image image1..N in slide order.
func (p *Presentation) assignMedia() []*Media {
	var media []*Media
	for _, s := range p.slides {
		for _, sh := range s.Shapes {
			if sh.media == nil {
				continue
			}
			media = append(media, sh.media)
			sh.media.Name = fmt.Sprintf("image%d.%s", len(media), sh.media.Ext)
		}
	}
	return media
}

func writeZipTextFile(writer *zip.Writer, name string, content string) error {
	w, err := writer.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, strings.NewReader(content)); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

func writeZipBytes(writer *zip.Writer, name string, payload []byte) error {
	w, err := writer.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (p *Presentation) contentTypesXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	for _, ext := range []string{"png", "jpeg", "gif"} {
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, ext, mediaContentTypes[ext])
	}
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/viewProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/tableStyles.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slideLayouts/slideLayout%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`, i)
	}
	for i := range p.slides {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func rootRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="` + relBase + `officeDocument" Target="ppt/presentation.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
		`<Relationship Id="rId3" Type="` + relBase + `extended-properties" Target="docProps/app.xml"/>` +
		`</Relationships>`
}

func (p *Presentation) corePropsXML() string {
	now := time.Now().UTC().Format(time.RFC3339)
	return xmlHeader +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(p.Title) + `</dc:title>` +
		`<dc:creator>` + escape(p.Creator) + `</dc:creator>` +
		`<cp:lastModifiedBy>` + escape(p.Creator) + `</cp:lastModifiedBy>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + now + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + now + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

func (p *Presentation) appPropsXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">`)
	b.WriteString(`<Application>` + escape(p.Creator) + `</Application>`)
	b.WriteString(`<PresentationFormat>On-screen Show (4:3)</PresentationFormat>`)
	fmt.Fprintf(&b, `<Slides>%d</Slides>`, len(p.slides))
	b.WriteString(`<Notes>0</Notes><HiddenSlides>0</HiddenSlides><MMClips>0</MMClips><ScaleCrop>false</ScaleCrop>`)
	b.WriteString(`<AppVersion>16.0000</AppVersion>`)
	b.WriteString(`</Properties>`)
	return b.String()
}

// Relationship ids in presentation.xml.rels: master, theme and props take
// rId1..rId5, slides follow.
const firstSlideRel = 6

func (p *Presentation) presentationXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `" saveSubsetFonts="1">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if len(p.slides) > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := range p.slides {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, firstSlideRel+i)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d" type="screen4x3"/>`, SlideWidth, SlideHeight)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`<p:defaultTextStyle/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func (p *Presentation) presentationRelsXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="` + relBase + `slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	b.WriteString(`<Relationship Id="rId2" Type="` + relBase + `theme" Target="theme/theme1.xml"/>`)
	b.WriteString(`<Relationship Id="rId3" Type="` + relBase + `presProps" Target="presProps.xml"/>`)
	b.WriteString(`<Relationship Id="rId4" Type="` + relBase + `viewProps" Target="viewProps.xml"/>`)
	b.WriteString(`<Relationship Id="rId5" Type="` + relBase + `tableStyles" Target="tableStyles.xml"/>`)
	for i := range p.slides {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%sslide" Target="slides/slide%d.xml"/>`, firstSlideRel+i, relBase, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func slideXML(s *Slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">`)
	b.WriteString(`<p:cSld>`)
	if s.Background != nil {
		b.WriteString(`<p:bg><p:bgPr><a:solidFill><a:srgbClr val="` + s.Background.hex() + `"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`)
	}
	b.WriteString(`<p:spTree>`)
	b.WriteString(groupShapeProps)

	pictureRel := 2
	for _, sh := range s.Shapes {
		switch sh.Kind {
		case ShapePlaceholder:
			writePlaceholder(&b, sh)
		case ShapeTextbox:
			writeTextbox(&b, sh)
		case ShapePicture:
			writePicture(&b, sh, pictureRel)
			pictureRel++
		}
	}

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

// slideRelsXML lists the layout as rId1 and pictures as rId2.. in shape order,
// matching the r:embed ids written by slideXML.
func slideRelsXML(s *Slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	fmt.Fprintf(&b, `<Relationship Id="rId1" Type="%sslideLayout" Target="../slideLayouts/slideLayout%d.xml"/>`, relBase, int(s.Layout)+1)
	rel := 2
	for _, sh := range s.Shapes {
		if sh.Kind != ShapePicture || sh.media == nil {
			continue
		}
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%simage" Target="../media/%s"/>`, rel, relBase, sh.media.Name)
		rel++
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

const groupShapeProps = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

func writeXfrm(b *strings.Builder, r Rect) {
	fmt.Fprintf(b, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, r.X, r.Y, r.CX, r.CY)
}

func writePlaceholder(b *strings.Builder, sh *Shape) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/>`, sh.ID, escape(sh.Name))
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr>`)
	switch {
	case sh.Placeholder == PhBody:
		fmt.Fprintf(b, `<p:ph idx="%d"/>`, sh.Idx)
	case sh.Idx > 0:
		fmt.Fprintf(b, `<p:ph type="%s" idx="%d"/>`, sh.Placeholder, sh.Idx)
	default:
		fmt.Fprintf(b, `<p:ph type="%s"/>`, sh.Placeholder)
	}
	b.WriteString(`</p:nvPr></p:nvSpPr><p:spPr>`)
	writeXfrm(b, sh.Frame)
	b.WriteString(`</p:spPr>`)
	writeTextBody(b, sh.Text, `<a:bodyPr/>`)
	b.WriteString(`</p:sp>`)
}

func writeTextbox(b *strings.Builder, sh *Shape) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, sh.ID, escape(sh.Name))
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, sh.Frame)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)
	writeTextBody(b, sh.Text, `<a:bodyPr wrap="square" rtlCol="0"><a:spAutoFit/></a:bodyPr>`)
	b.WriteString(`</p:sp>`)
}

func writePicture(b *strings.Builder, sh *Shape, rel int) {
	fmt.Fprintf(b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"/>`, sh.ID, escape(sh.Name))
	b.WriteString(`<p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`)
	fmt.Fprintf(b, `<p:blipFill><a:blip r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, rel)
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, sh.Frame)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
}

func writeTextBody(b *strings.Builder, tf *TextFrame, bodyPr string) {
	b.WriteString(`<p:txBody>`)
	b.WriteString(bodyPr)
	b.WriteString(`<a:lstStyle/>`)
	if tf == nil || len(tf.Paragraphs) == 0 {
		b.WriteString(`<a:p><a:endParaRPr lang="en-US" dirty="0"/></a:p>`)
	} else {
		for _, p := range tf.Paragraphs {
			writeParagraph(b, p)
		}
	}
	b.WriteString(`</p:txBody>`)
}

func writeParagraph(b *strings.Builder, p *Paragraph) {
	b.WriteString(`<a:p>`)
	if p.Text == "" {
		b.WriteString(`<a:endParaRPr lang="en-US" dirty="0"/>`)
	} else {
		b.WriteString(`<a:r>`)
		writeRunProps(b, p.Font)
		b.WriteString(`<a:t>` + escape(p.Text) + `</a:t></a:r>`)
	}
	b.WriteString(`</a:p>`)
}

func writeRunProps(b *strings.Builder, f Font) {
	b.WriteString(`<a:rPr lang="en-US"`)
	if f.Size > 0 {
		fmt.Fprintf(b, ` sz="%d"`, int(f.Size*100))
	}
	b.WriteString(` dirty="0"`)
	if f.Color == nil && f.Name == "" {
		b.WriteString(`/>`)
		return
	}
	b.WriteString(`>`)
	if f.Color != nil {
		b.WriteString(`<a:solidFill><a:srgbClr val="` + f.Color.hex() + `"/></a:solidFill>`)
	}
	if f.Name != "" {
		b.WriteString(`<a:latin typeface="` + escape(f.Name) + `"/>`)
	}
	b.WriteString(`</a:rPr>`)
}
