package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"img-recon/internal/imaging"
	"img-recon/internal/model"
	"img-recon/internal/opc"
)

type worksheetDrawingsXML struct {
	XMLName  xml.Name `xml:"worksheet"`
	Drawings []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"drawing"`
}

// drawingAnchor is one parsed anchor node before media resolution.
type drawingAnchor struct {
	kind    string // "twoCellAnchor", "oneCellAnchor", "absoluteAnchor"
	fromRow int    // 0-based, -1 when absent
	fromCol int
	posY    int64 // EMU, absolute anchors only
	hasPosY bool
	embed   string // r:embed relationship id of the a:blip
}

// ExtractDrawingAnchors walks sheet -> drawing part -> media relationships
// and yields one positioned anchor per embedded picture. A sheet without a
// drawing part is a normal condition and yields no anchors.
func ExtractDrawingAnchors(src *Source) ([]*model.ImageAnchor, error) {
	sheetXML, err := src.Pkg.ReadPart(src.SheetPath)
	if err != nil {
		return nil, err
	}

	var ws worksheetDrawingsXML
	if err := xml.Unmarshal(sheetXML, &ws); err != nil {
		return nil, opc.NewPartError(src.SheetPath, fmt.Errorf("failed to parse worksheet: %w", err))
	}
	if len(ws.Drawings) == 0 {
		return nil, nil
	}

	sheetRels, err := src.Pkg.RelationshipMap(src.SheetPath)
	if err != nil {
		return nil, err
	}

	heights := NewHeightTable(src.RowHeights, src.DefaultRowHeight)

	var anchors []*model.ImageAnchor
	itemIdx := 0
	for _, d := range ws.Drawings {
		target, ok := sheetRels[d.RID]
		if !ok {
			continue
		}
		drawingPath := opc.ResolveTarget(src.SheetPath, target)
		drawingXML, err := src.Pkg.ReadPart(drawingPath)
		if err != nil {
			continue
		}

		drawingRels, err := src.Pkg.RelationshipMap(drawingPath)
		if err != nil {
			return nil, err
		}

		for _, da := range parseDrawingAnchors(drawingXML) {
			if da.embed == "" {
				continue
			}
			mediaTarget, ok := drawingRels[da.embed]
			if !ok {
				continue
			}
			mediaPath := opc.ResolveTarget(drawingPath, mediaTarget)
			data, err := src.Pkg.ReadPart(mediaPath)
			if err != nil || len(data) == 0 {
				continue
			}

			anchor := &model.ImageAnchor{
				Format: imaging.Normalize(extOf(mediaPath), data),
				Data:   data,
			}
			switch {
			case da.fromRow >= 0:
				row := da.fromRow + 1
				anchor.Row = &row
				if da.fromCol >= 0 {
					col := da.fromCol + 1
					anchor.Col = &col
				}
			case da.hasPosY:
				row := heights.RowForOffset(da.posY)
				anchor.Row = &row
			}

			itemIdx++
			anchor.SourceTag = fmt.Sprintf("drawing:%d", itemIdx)
			anchors = append(anchors, anchor)
		}
	}

	sortAnchors(anchors)
	return anchors, nil
}

// parseDrawingAnchors token-walks a drawing part and collects anchor nodes.
func parseDrawingAnchors(data []byte) []drawingAnchor {
	var anchors []drawingAnchor

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		if se, ok := token.(xml.StartElement); ok {
			switch se.Name.Local {
			case "twoCellAnchor", "oneCellAnchor", "absoluteAnchor":
				if a, ok := parseAnchorElement(decoder, se.Name.Local); ok {
					anchors = append(anchors, a)
				}
			}
		}
	}

	return anchors
}

func parseAnchorElement(decoder *xml.Decoder, kind string) (drawingAnchor, bool) {
	a := drawingAnchor{kind: kind, fromRow: -1, fromCol: -1}
	sawContent := false

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "from":
				// Only the first marker counts; twoCellAnchor's "to"
				// marker never enters here.
				if a.fromRow < 0 {
					a.fromRow, a.fromCol = parseMarker(decoder)
				} else {
					skipElement(decoder)
				}
				depth--
			case "pos":
				for _, attr := range t.Attr {
					if attr.Name.Local == "y" {
						if y, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							a.posY = y
							a.hasPosY = true
						}
					}
				}
			case "blip":
				if a.embed == "" {
					for _, attr := range t.Attr {
						if attr.Name.Local == "embed" {
							a.embed = attr.Value
						}
					}
				}
			}
			sawContent = true
		case xml.EndElement:
			depth--
		}
	}

	return a, sawContent
}

// parseMarker reads the row/col child elements of a from marker, 0-based.
func parseMarker(decoder *xml.Decoder) (row, col int) {
	row, col = -1, -1

	var current string
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			current = t.Name.Local
		case xml.CharData:
			text := string(bytes.TrimSpace(t))
			if text == "" {
				break
			}
			if n, err := strconv.Atoi(text); err == nil {
				switch current {
				case "row":
					row = n
				case "col":
					col = n
				}
			}
		case xml.EndElement:
			depth--
			current = ""
		}
	}
	return row, col
}

func skipElement(decoder *xml.Decoder) {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return
		}
		switch token.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
}
