package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ExtractSlidesToPNG converts a PPTX file to a series of PNG images using LibreOffice and pdftoppm.
func ExtractSlidesToPNG(pptxPath, outputDir, tempDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %v", err)
	}

	if tempDir == "" {
		tempDir = os.TempDir()
	}
	tempPDFDir := filepath.Join(tempDir, "pdf")
	if err := os.MkdirAll(tempPDFDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp pdf dir: %v", err)
	}

	// A dedicated subfolder per conversion, so concurrent runs never share a PDF.
	uniqueTaskDir, err := os.MkdirTemp(tempPDFDir, "task_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create unique task dir in %s: %v", tempPDFDir, err)
	}
	defer os.RemoveAll(uniqueTaskDir)

	// Step 1: PPTX to PDF using LibreOffice
	cmd := exec.Command("libreoffice", "--headless", "--convert-to", "pdf", "--outdir", uniqueTaskDir, pptxPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("libreoffice conversion failed: %v (output: %s)", err, string(output))
	}

	pdfName := filepath.Base(pptxPath)
	pdfName = pdfName[:len(pdfName)-len(filepath.Ext(pdfName))] + ".pdf"
	pdfPath := filepath.Join(uniqueTaskDir, pdfName)

	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		var foundFiles []string
		if entries, err := os.ReadDir(uniqueTaskDir); err == nil {
			for _, entry := range entries {
				foundFiles = append(foundFiles, entry.Name())
			}
		}
		return nil, fmt.Errorf("pdf file not found after conversion: %v (expected %s, found: %v)", pdfPath, pdfName, foundFiles)
	}

	// Step 2: PDF to PNG using pdftoppm
	outputBase := filepath.Join(outputDir, "slide")
	cmd = exec.Command("pdftoppm", "-png", "-rx", "150", "-ry", "150", pdfPath, outputBase)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm conversion failed: %v", err)
	}

	// Step 3: Rename slide-N.png to slide-000N.png for better sorting
	files, err := filepath.Glob(filepath.Join(outputDir, "slide-*.png"))
	if err != nil {
		return nil, err
	}

	re := regexp.MustCompile(`slide-(\d+)\.png$`)
	for _, f := range files {
		matches := re.FindStringSubmatch(f)
		if len(matches) > 1 {
			num, _ := strconv.Atoi(matches[1])
			newPath := filepath.Join(outputDir, fmt.Sprintf("slide-%04d.png", num))
			os.Rename(f, newPath)
		}
	}

	finalFiles, _ := filepath.Glob(filepath.Join(outputDir, "slide-*.png"))
	sort.Strings(finalFiles)

	return finalFiles, nil
}

// SlideData holds extracted text and style information for a slide.
type SlideData struct {
	SlideNumber int        `json:"slide_number"`
	Text        string     `json:"text"`
	Styles      *JSONSlide `json:"styles"`
}

// Structures for rich JSON extraction
type JSONSlide struct {
	Index      int         `json:"index"`
	Layout     string      `json:"layout"`
	Background string      `json:"background,omitempty"`
	Pictures   int         `json:"pictures"`
	Shapes     []ShapeInfo `json:"shapes"`
}

// ShapeInfo is the reader's view of a text-bearing shape.
type ShapeInfo struct {
	Type string    `json:"type"` // title | subtitle | body | other
	Runs []TextRun `json:"runs"`
}

// Text joins the shape's runs, one per line.
func (s ShapeInfo) Text() string {
	parts := make([]string, len(s.Runs))
	for i, r := range s.Runs {
		parts[i] = r.Text
	}
	return strings.Join(parts, "\n")
}

type TextRun struct {
	Text  string `json:"text"`
	Bold  bool   `json:"bold,omitempty"`
	Size  int    `json:"size,omitempty"` // pt
	Font  string `json:"font,omitempty"`
	Color string `json:"color,omitempty"`
}

// Title returns the text of the first title shape.
func (s *JSONSlide) Title() string {
	for _, sh := range s.Shapes {
		if sh.Type == "title" {
			return sh.Text()
		}
	}
	return ""
}

// ExtractSlideContent extracts text and rich structure info from all slides in a PPTX.
func ExtractSlideContent(pptxPath string) (map[int]SlideData, error) {
	r, err := zip.OpenReader(pptxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	result := make(map[int]SlideData)
	for _, f := range r.File {
		// Proper check for slide files: starts with ppt/slides/slide and ends with .xml
		if !strings.HasPrefix(f.Name, "ppt/slides/slide") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		// Extract index from filename, e.g., ppt/slides/slide1.xml -> 1
		baseName := filepath.Base(f.Name)
		numStr := strings.TrimSuffix(strings.TrimPrefix(baseName, "slide"), ".xml")
		slideNum, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		jsonSlide, plainText, err := parseSlideXML(rc, slideNum)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", slideNum, err)
		}
		jsonSlide.Layout = slideLayoutFor(&r.Reader, slideNum)

		result[slideNum] = SlideData{
			SlideNumber: slideNum,
			Text:        strings.TrimSpace(plainText),
			Styles:      jsonSlide,
		}
	}

	return result, nil
}

// OrderedSlides returns the slides of a PPTX sorted by slide number.
func OrderedSlides(pptxPath string) ([]SlideData, error) {
	content, err := ExtractSlideContent(pptxPath)
	if err != nil {
		return nil, err
	}
	slides := make([]SlideData, 0, len(content))
	for _, s := range content {
		slides = append(slides, s)
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].SlideNumber < slides[j].SlideNumber })
	return slides, nil
}

var layoutNames = map[string]string{
	"slideLayout1.xml": LayoutTitle.String(),
	"slideLayout2.xml": LayoutTitleAndContent.String(),
	"slideLayout3.xml": LayoutBlank.String(),
}

// slideLayoutFor resolves the layout of a slide through ppt/slides/_rels/slide[N].xml.rels.
func slideLayoutFor(r *zip.Reader, slideNum int) string {
	relPath := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum)
	for _, f := range r.File {
		if f.Name != relPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ""
		}
		defer rc.Close()

		dec := xml.NewDecoder(rc)
		for {
			tok, err := dec.Token()
			if err != nil {
				return ""
			}
			el, ok := tok.(xml.StartElement)
			if !ok || el.Name.Local != "Relationship" {
				continue
			}
			var target, rType string
			for _, a := range el.Attr {
				switch a.Name.Local {
				case "Target":
					target = a.Value
				case "Type":
					rType = a.Value
				}
			}
			if strings.HasSuffix(rType, "/slideLayout") {
				base := path.Base(target)
				if name, ok := layoutNames[base]; ok {
					return name
				}
				return strings.TrimSuffix(base, ".xml")
			}
		}
	}
	return ""
}

func parseSlideXML(r io.Reader, index int) (*JSONSlide, string, error) {
	dec := xml.NewDecoder(r)

	slide := &JSONSlide{Index: index}
	var textBuilder strings.Builder

	var currentShape *ShapeInfo
	var currentRun *TextRun
	inBackground := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", err
		}

		switch el := tok.(type) {

		case xml.StartElement:
			switch el.Name.Local {

			case "bg":
				inBackground = true

			case "sp": // shape
				currentShape = &ShapeInfo{Type: "other"}

			case "pic":
				slide.Pictures++

			case "ph": // placeholder (title/body)
				if currentShape != nil {
					placeholderType := ""
					for _, a := range el.Attr {
						if a.Name.Local == "type" {
							placeholderType = a.Value
						}
					}
					currentShape.Type = normalizePlaceholder(placeholderType)
				}

			case "r": // text run
				currentRun = &TextRun{}

			case "rPr": // run formatting
				if currentRun != nil {
					for _, a := range el.Attr {
						switch a.Name.Local {
						case "b":
							currentRun.Bold = a.Value == "1"
						case "sz":
							if sz, err := strconv.Atoi(a.Value); err == nil {
								currentRun.Size = sz / 100 // 1/100 pt
							}
						}
					}
				}

			case "latin": // font family
				if currentRun != nil {
					for _, a := range el.Attr {
						if a.Name.Local == "typeface" {
							currentRun.Font = a.Value
						}
					}
				}

			case "srgbClr": // color
				for _, a := range el.Attr {
					if a.Name.Local != "val" {
						continue
					}
					if inBackground {
						slide.Background = "#" + a.Value
					} else if currentRun != nil {
						currentRun.Color = "#" + a.Value
					}
				}

			case "t": // actual text
				if currentRun != nil {
					var text string
					if err := dec.DecodeElement(&text, &el); err == nil {
						currentRun.Text = text
					}
				}
			}

		case xml.EndElement:
			switch el.Name.Local {

			case "bg":
				inBackground = false

			case "r":
				if currentShape != nil && currentRun != nil && currentRun.Text != "" {
					currentShape.Runs = append(currentShape.Runs, *currentRun)
					textBuilder.WriteString(currentRun.Text)
					textBuilder.WriteString(" ")
				}
				currentRun = nil

			case "sp":
				if currentShape != nil && len(currentShape.Runs) > 0 {
					slide.Shapes = append(slide.Shapes, *currentShape)
				}
				currentShape = nil
			}
		}
	}

	return slide, textBuilder.String(), nil
}

func normalizePlaceholder(ph string) string {
	switch ph {
	case "title", "ctrTitle":
		return "title"
	case "subTitle":
		return "subtitle"
	case "body", "":
		return "body"
	default:
		return "other"
	}
}
