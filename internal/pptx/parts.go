package pptx

import (
	"fmt"
	"strings"
)

// Fixed parts shared by every generated deck: one master, three layouts and
// an Office-style theme whose font scheme follows the presentation fonts.

const presPropsXML = xmlHeader +
	`<p:presentationPr xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"/>`

const viewPropsXML = xmlHeader +
	`<p:viewPr xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">` +
	`<p:normalViewPr><p:restoredLeft sz="15620"/><p:restoredTop sz="94660"/></p:normalViewPr>` +
	`<p:gridSpacing cx="76200" cy="76200"/>` +
	`</p:viewPr>`

const tableStylesXML = xmlHeader +
	`<a:tblStyleLst xmlns:a="` + nsA + `" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`

func themeXML(major, minor string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<a:theme xmlns:a="` + nsA + `" name="DeckForge">`)
	b.WriteString(`<a:themeElements>`)

	b.WriteString(`<a:clrScheme name="DeckForge">`)
	b.WriteString(`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>`)
	b.WriteString(`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>`)
	for _, c := range []struct{ name, val string }{
		{"dk2", "1F497D"}, {"lt2", "EEECE1"},
		{"accent1", "4F81BD"}, {"accent2", "C0504D"}, {"accent3", "9BBB59"},
		{"accent4", "8064A2"}, {"accent5", "4BACC6"}, {"accent6", "F79646"},
		{"hlink", "0000FF"}, {"folHlink", "800080"},
	} {
		fmt.Fprintf(&b, `<a:%s><a:srgbClr val="%s"/></a:%s>`, c.name, c.val, c.name)
	}
	b.WriteString(`</a:clrScheme>`)

	b.WriteString(`<a:fontScheme name="DeckForge">`)
	b.WriteString(`<a:majorFont><a:latin typeface="` + escape(major) + `"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`)
	b.WriteString(`<a:minorFont><a:latin typeface="` + escape(minor) + `"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>`)
	b.WriteString(`</a:fontScheme>`)

	solid := `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`
	b.WriteString(`<a:fmtScheme name="DeckForge">`)
	b.WriteString(`<a:fillStyleLst>` + strings.Repeat(solid, 3) + `</a:fillStyleLst>`)
	b.WriteString(`<a:lnStyleLst>`)
	for _, w := range []int{9525, 25400, 38100} {
		fmt.Fprintf(&b, `<a:ln w="%d" cap="flat" cmpd="sng" algn="ctr">%s<a:prstDash val="solid"/></a:ln>`, w, solid)
	}
	b.WriteString(`</a:lnStyleLst>`)
	b.WriteString(`<a:effectStyleLst>` + strings.Repeat(`<a:effectStyle><a:effectLst/></a:effectStyle>`, 3) + `</a:effectStyleLst>`)
	b.WriteString(`<a:bgFillStyleLst>` + strings.Repeat(solid, 3) + `</a:bgFillStyleLst>`)
	b.WriteString(`</a:fmtScheme>`)

	b.WriteString(`</a:themeElements>`)
	b.WriteString(`<a:objectDefaults/><a:extraClrSchemeLst/>`)
	b.WriteString(`</a:theme>`)
	return b.String()
}

func placeholderSp(id int, name, ph string, frame Rect) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`, id, name)
	b.WriteString(`<p:nvPr>` + ph + `</p:nvPr></p:nvSpPr><p:spPr>`)
	writeXfrm(&b, frame)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>`)
	return b.String()
}

func slideMasterXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sldMaster xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">`)
	b.WriteString(`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>`)
	b.WriteString(groupShapeProps)
	b.WriteString(placeholderSp(2, "Title Placeholder 1", `<p:ph type="title"/>`, titleFrame))
	b.WriteString(placeholderSp(3, "Text Placeholder 2", `<p:ph type="body" idx="1"/>`, bodyFrame))
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	b.WriteString(`<p:sldLayoutIdLst>`)
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&b, `<p:sldLayoutId id="%d" r:id="rId%d"/>`, 2147483648+i, i)
	}
	b.WriteString(`</p:sldLayoutIdLst>`)
	b.WriteString(`<p:txStyles>`)
	b.WriteString(`<p:titleStyle><a:lvl1pPr algn="ctr"><a:defRPr sz="4400"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mj-lt"/></a:defRPr></a:lvl1pPr></p:titleStyle>`)
	// Bullet glyphs are part of the text, so the body style carries none.
	b.WriteString(`<p:bodyStyle><a:lvl1pPr marL="0" indent="0"><a:buNone/><a:defRPr sz="2400"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mn-lt"/></a:defRPr></a:lvl1pPr></p:bodyStyle>`)
	b.WriteString(`<p:otherStyle><a:defPPr><a:defRPr lang="en-US"/></a:defPPr></p:otherStyle>`)
	b.WriteString(`</p:txStyles>`)
	b.WriteString(`</p:sldMaster>`)
	return b.String()
}

func slideMasterRelsXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%sslideLayout" Target="../slideLayouts/slideLayout%d.xml"/>`, i, relBase, i)
	}
	fmt.Fprintf(&b, `<Relationship Id="rId4" Type="%stheme" Target="../theme/theme1.xml"/>`, relBase)
	b.WriteString(`</Relationships>`)
	return b.String()
}

var layoutMeta = map[Layout]struct{ typ, name string }{
	LayoutTitle:           {"title", "Title Slide"},
	LayoutTitleAndContent: {"obj", "Title and Content"},
	LayoutBlank:           {"blank", "Blank"},
}

func slideLayoutXML(l Layout) string {
	meta := layoutMeta[l]
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:sldLayout xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" type="%s" preserve="1">`, nsA, nsR, nsP, meta.typ)
	fmt.Fprintf(&b, `<p:cSld name="%s"><p:spTree>`, meta.name)
	b.WriteString(groupShapeProps)
	for i, ph := range layoutPlaceholders[l] {
		tag := fmt.Sprintf(`<p:ph type="%s"/>`, ph.typ)
		if ph.idx > 0 {
			tag = fmt.Sprintf(`<p:ph type="%s" idx="%d"/>`, ph.typ, ph.idx)
		}
		b.WriteString(placeholderSp(i+2, ph.name, tag, ph.frame))
	}
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sldLayout>`)
	return b.String()
}

func slideLayoutRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="` + relBase + `slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
		`</Relationships>`
}
