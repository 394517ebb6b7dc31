package opc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// Package is a read-only view over a ZIP-based OOXML container. Parts are
// addressed by normalized POSIX-style paths without a leading slash. The
// whole archive is materialized up front; a Package is request-scoped.
type Package struct {
	reader *zip.Reader
	index  map[string]*zip.File
	names  []string
}

// Open parses the container's central directory. A malformed archive fails
// fast; no repair is attempted.
func Open(data []byte) (*Package, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open container: %w", err)
	}

	p := &Package{
		reader: r,
		index:  make(map[string]*zip.File, len(r.File)),
		names:  make([]string, 0, len(r.File)),
	}
	for _, f := range r.File {
		name := normalizePath(f.Name)
		if name == "" {
			continue
		}
		p.index[name] = f
		p.names = append(p.names, name)
	}
	return p, nil
}

// Has reports whether a part exists in the container.
func (p *Package) Has(partPath string) bool {
	_, ok := p.index[normalizePath(partPath)]
	return ok
}

// Parts returns all part paths in archive order.
func (p *Package) Parts() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// ReadPart returns the raw bytes of a part, or ErrPartNotFound.
func (p *Package) ReadPart(partPath string) ([]byte, error) {
	norm := normalizePath(partPath)
	f, ok := p.index[norm]
	if !ok {
		return nil, NewPartError(norm, ErrPartNotFound)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, NewPartError(norm, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, NewPartError(norm, err)
	}
	return data, nil
}

// Relationship is one typed pointer from a part to another part.
type Relationship struct {
	ID     string
	Type   string
	Target string
}

type relationshipsXML struct {
	XMLName       xml.Name `xml:"Relationships"`
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// Relationships parses the _rels companion part of partPath. A missing
// companion part is normal and yields an empty list; malformed XML is an
// error.
func (p *Package) Relationships(partPath string) ([]Relationship, error) {
	relsPath := RelsPath(partPath)
	if !p.Has(relsPath) {
		return nil, nil
	}

	data, err := p.ReadPart(relsPath)
	if err != nil {
		return nil, err
	}

	var parsed relationshipsXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, NewPartError(relsPath, fmt.Errorf("failed to parse relationships: %w", err))
	}

	rels := make([]Relationship, 0, len(parsed.Relationships))
	for _, r := range parsed.Relationships {
		if r.ID == "" || r.Target == "" {
			continue
		}
		rels = append(rels, Relationship{ID: r.ID, Type: r.Type, Target: r.Target})
	}
	return rels, nil
}

// RelationshipMap returns the relId -> raw target mapping for a part.
func (p *Package) RelationshipMap(partPath string) (map[string]string, error) {
	rels, err := p.Relationships(partPath)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(rels))
	for _, r := range rels {
		if _, seen := m[r.ID]; !seen {
			m[r.ID] = r.Target
		}
	}
	return m, nil
}

// RelsPath returns the conventional companion part path holding the
// relationships of partPath, e.g. xl/worksheets/sheet1.xml ->
// xl/worksheets/_rels/sheet1.xml.rels.
func RelsPath(partPath string) string {
	norm := normalizePath(partPath)
	dir := path.Dir(norm)
	base := path.Base(norm)
	if dir == "." {
		return "_rels/" + base + ".rels"
	}
	return dir + "/_rels/" + base + ".rels"
}

// ResolveTarget resolves a relationship target against its source part. A
// target with a leading slash is package-root-relative; anything else is
// relative to the directory of basePartPath. Backslashes are normalized and
// dot segments collapsed. Directory resolution must be exact: being off by
// one level silently points at the wrong media part.
func ResolveTarget(basePartPath, rawTarget string) string {
	target := strings.ReplaceAll(rawTarget, "\\", "/")
	if target == "" {
		return ""
	}
	if strings.HasPrefix(target, "/") {
		return normalizePath(target)
	}
	base := normalizePath(basePartPath)
	return normalizePath(path.Join(path.Dir(base), target))
}

// normalizePath maps any part reference onto the canonical index form.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "/")
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	return p
}
