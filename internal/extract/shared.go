package extract

import (
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"img-recon/internal/imaging"
	"img-recon/internal/model"
	"img-recon/internal/opc"
)

// dispImgKey captures the quoted key literal of the "display image by key"
// marker function, e.g. =_xlfn.DISPIMG("ID_E3A17...",1).
var dispImgKey = regexp.MustCompile(`(?i)DISPIMG\(\s*"([^"]+)"`)

// cellFormula is one formula-bearing cell in the worksheet.
type cellFormula struct {
	row, col int
	sharedID string // si attribute, "" for inline formulas
	text     string // formula text, "" when inherited via sharedID
}

// sharedImageNode is one image node of the shared-images part.
type sharedImageNode struct {
	idents []string // every plausible identifying attribute or inline text
	embed  string
}

// ExtractSharedImages scans the image column for formula keys and resolves
// each key against the shared-images part. A key matching zero or more than
// one image node is excluded rather than guessed: silently emitting the
// wrong image for a vendor row is worse than omitting it.
func ExtractSharedImages(src *Source) ([]*model.ImageAnchor, error) {
	sheetXML, err := src.Pkg.ReadPart(src.SheetPath)
	if err != nil {
		return nil, err
	}

	formulas, sharedDefs := parseCellFormulas(sheetXML)
	keysByRow := collectImageKeys(formulas, sharedDefs, src.Layout)
	if len(keysByRow) == 0 {
		return nil, nil
	}

	imagesPath, ok, err := locateSharedImagesPart(src.Pkg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	imagesXML, err := src.Pkg.ReadPart(imagesPath)
	if err != nil {
		return nil, nil
	}
	nodes := parseSharedImageNodes(imagesXML)
	if len(nodes) == 0 {
		return nil, nil
	}

	imagesRels, err := src.Pkg.RelationshipMap(imagesPath)
	if err != nil {
		return nil, err
	}

	var anchors []*model.ImageAnchor
	for _, rk := range keysByRow {
		node, matches := matchKey(nodes, rk.key)
		if matches != 1 {
			src.warnf("Row %d: image key %q matched %d image nodes, left unresolved.", rk.row, rk.key, matches)
			continue
		}

		target, ok := imagesRels[node.embed]
		if !ok {
			src.warnf("Row %d: image key %q has no media relationship %s.", rk.row, rk.key, node.embed)
			continue
		}
		mediaPath := opc.ResolveTarget(imagesPath, target)
		data, err := src.Pkg.ReadPart(mediaPath)
		if err != nil || len(data) == 0 {
			src.warnf("Row %d: media part %q for key %q is missing or empty.", rk.row, mediaPath, rk.key)
			continue
		}

		row, col := rk.row, src.Layout.ImageCol
		anchors = append(anchors, &model.ImageAnchor{
			Row:       &row,
			Col:       &col,
			Format:    imaging.Normalize(extOf(mediaPath), data),
			Data:      data,
			SourceTag: "dispimg:" + rk.key,
		})
	}

	sortAnchors(anchors)
	return anchors, nil
}

type rowKey struct {
	row int
	key string
}

// collectImageKeys resolves the formula text of every image-column cell at
// or past the start row, honoring shared-formula indirection, and extracts
// the key literal.
func collectImageKeys(formulas []cellFormula, sharedDefs map[string]string, layout model.Layout) []rowKey {
	var keys []rowKey
	for _, f := range formulas {
		if f.col != layout.ImageCol || f.row < layout.StartRow {
			continue
		}
		text := f.text
		if text == "" && f.sharedID != "" {
			text = sharedDefs[f.sharedID]
		}
		if text == "" {
			continue
		}
		if m := dispImgKey.FindStringSubmatch(text); m != nil {
			keys = append(keys, rowKey{row: f.row, key: m[1]})
		}
	}
	return keys
}

// matchKey returns the single node identified by key, along with how many
// nodes matched at all.
func matchKey(nodes []sharedImageNode, key string) (sharedImageNode, int) {
	var found sharedImageNode
	matches := 0
	for _, n := range nodes {
		for _, ident := range n.idents {
			if ident == key || strings.Contains(ident, key) {
				found = n
				matches++
				break
			}
		}
	}
	return found, matches
}

// locateSharedImagesPart finds the shared-images part via workbook
// relationships, falling back to the conventional part name.
func locateSharedImagesPart(pkg *opc.Package) (string, bool, error) {
	target, ok, err := pkg.FindTargetByType(opc.WorkbookPart, "cellimages")
	if err != nil {
		return "", false, err
	}
	if ok {
		return target, true, nil
	}
	if pkg.Has("xl/cellimages.xml") {
		return "xl/cellimages.xml", true, nil
	}
	return "", false, nil
}

// parseCellFormulas token-walks the worksheet XML and returns every
// formula-bearing cell plus the shared-formula definitions (si -> text).
func parseCellFormulas(data []byte) ([]cellFormula, map[string]string) {
	var formulas []cellFormula
	sharedDefs := make(map[string]string)

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "c" {
			continue
		}

		var ref string
		for _, attr := range se.Attr {
			if attr.Name.Local == "r" {
				ref = attr.Value
			}
		}
		f, hasFormula := parseCellElement(decoder)
		if !hasFormula || ref == "" {
			continue
		}

		col, row, err := excelize.CellNameToCoordinates(ref)
		if err != nil {
			continue
		}
		f.row, f.col = row, col

		if f.sharedID != "" && f.text != "" {
			sharedDefs[f.sharedID] = f.text
		}
		formulas = append(formulas, f)
	}

	return formulas, sharedDefs
}

// parseCellElement consumes one <c> element and captures its formula child.
func parseCellElement(decoder *xml.Decoder) (cellFormula, bool) {
	var f cellFormula
	hasFormula := false

	inFormula := false
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "f" {
				hasFormula = true
				inFormula = true
				for _, attr := range t.Attr {
					if attr.Name.Local == "si" {
						f.sharedID = attr.Value
					}
				}
			}
		case xml.CharData:
			if inFormula {
				f.text += string(t)
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "f" {
				inFormula = false
			}
		}
	}

	f.text = strings.TrimSpace(f.text)
	return f, hasFormula
}

// parseSharedImageNodes token-walks the shared-images part. Each image node
// contributes its non-visual property attributes (id, name, descr, title)
// and inline text as identity candidates, plus its blip embed id.
func parseSharedImageNodes(data []byte) []sharedImageNode {
	var nodes []sharedImageNode

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "cellImage" {
			if n, ok := parseSharedImageNode(decoder); ok {
				nodes = append(nodes, n)
			}
		}
	}

	return nodes
}

func parseSharedImageNode(decoder *xml.Decoder) (sharedImageNode, bool) {
	var n sharedImageNode

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
			case "cNvPr":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "id", "name", "descr", "title":
						if v := strings.TrimSpace(attr.Value); v != "" {
							n.idents = append(n.idents, v)
						}
					}
				}
			case "blip":
				if n.embed == "" {
					for _, attr := range t.Attr {
						if attr.Name.Local == "embed" {
							n.embed = attr.Value
						}
					}
				}
			}
		case xml.CharData:
			if v := string(bytes.TrimSpace(t)); v != "" {
				n.idents = append(n.idents, v)
			}
		case xml.EndElement:
			depth--
		}
	}

	return n, n.embed != "" && len(n.idents) > 0
}
