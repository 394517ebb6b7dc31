package opc

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// WorkbookPart is the entry part of a spreadsheet container.
const WorkbookPart = "xl/workbook.xml"

type workbookXML struct {
	XMLName xml.Name `xml:"workbook"`
	Sheets  struct {
		Sheets []struct {
			Name string `xml:"name,attr"`
			RID  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

func (p *Package) workbook() (*workbookXML, error) {
	data, err := p.ReadPart(WorkbookPart)
	if err != nil {
		return nil, err
	}
	var wb workbookXML
	if err := xml.Unmarshal(data, &wb); err != nil {
		return nil, NewPartError(WorkbookPart, fmt.Errorf("failed to parse workbook: %w", err))
	}
	return &wb, nil
}

// SheetNames returns the worksheet names in declared order.
func (p *Package) SheetNames() ([]string, error) {
	wb, err := p.workbook()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(wb.Sheets.Sheets))
	for _, s := range wb.Sheets.Sheets {
		names = append(names, s.Name)
	}
	return names, nil
}

// SheetPath resolves a worksheet name to its part path through the workbook
// relationships.
func (p *Package) SheetPath(sheetName string) (string, error) {
	wb, err := p.workbook()
	if err != nil {
		return "", err
	}

	rels, err := p.RelationshipMap(WorkbookPart)
	if err != nil {
		return "", err
	}

	for _, s := range wb.Sheets.Sheets {
		if s.Name != sheetName {
			continue
		}
		target, ok := rels[s.RID]
		if !ok {
			return "", fmt.Errorf("sheet %q: relationship %s missing: %w", sheetName, s.RID, ErrSheetNotFound)
		}
		return ResolveTarget(WorkbookPart, target), nil
	}
	return "", fmt.Errorf("sheet %q: %w", sheetName, ErrSheetNotFound)
}

// FindTargetByType returns the resolved target of the first relationship of
// partPath whose type contains typeSubstr (case-insensitive), e.g. "drawing"
// or "cellimages".
func (p *Package) FindTargetByType(partPath, typeSubstr string) (string, bool, error) {
	rels, err := p.Relationships(partPath)
	if err != nil {
		return "", false, err
	}
	needle := strings.ToLower(typeSubstr)
	for _, r := range rels {
		if strings.Contains(strings.ToLower(r.Type), needle) {
			return ResolveTarget(partPath, r.Target), true, nil
		}
	}
	return "", false, nil
}
