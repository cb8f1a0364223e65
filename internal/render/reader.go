package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadDocument parses a DOCX payload back into blocks. It understands the
// subset this package writes (paragraph styles, bold/italic/underline runs,
// breaks) and exists so tests can assert on round-tripped structure.
func ReadDocument(data []byte) ([]Block, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, errors.New("document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return parseDocumentXML(rc)
}

func parseDocumentXML(r io.Reader) ([]Block, error) {
	decoder := xml.NewDecoder(r)

	var blocks []Block
	var current *Block
	var runStyle RunStyle
	var inRunProps bool

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				current = &Block{Kind: KindParagraph}
			case "pStyle":
				if current != nil {
					applyStyleID(current, attrValue(t, "val"))
				}
			case "rPr":
				inRunProps = true
				runStyle = RunStyle{}
			case "b":
				if inRunProps {
					runStyle.Bold = true
				}
			case "i":
				if inRunProps {
					runStyle.Italic = true
				}
			case "u":
				if inRunProps {
					runStyle.Underline = true
				}
			case "br":
				if current != nil {
					current.Runs = append(current.Runs, Run{Break: true})
				}
			case "r":
				runStyle = RunStyle{}
			case "t":
				var text string
				if err := decoder.DecodeElement(&text, &t); err != nil {
					return nil, err
				}
				if current != nil {
					current.Runs = append(current.Runs, Run{Text: text, Style: runStyle})
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if current != nil {
					blocks = append(blocks, *current)
					current = nil
				}
			case "rPr":
				inRunProps = false
			}
		}
	}

	return blocks, nil
}

func applyStyleID(block *Block, styleID string) {
	switch {
	case strings.HasPrefix(styleID, "Heading"):
		block.Kind = KindHeading
		if level := int(styleID[len(styleID)-1] - '0'); level >= 1 && level <= 6 {
			block.Level = level
		}
	case styleID == "ListBullet":
		block.Kind = KindBulletItem
	case styleID == "ListNumber":
		block.Kind = KindNumberItem
	}
}

func attrValue(el xml.StartElement, name string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
