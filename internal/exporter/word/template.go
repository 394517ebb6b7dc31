package word

import (
	"archive/zip"
	"fmt"
	"os"
)

// writeTemplate generates the minimal WordprocessingML package the exporter
// fills in. Keeping the template in code avoids shipping a binary asset.
func writeTemplate(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
		// Required by some parsers even when empty
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Image Extraction Report</w:t></w:r></w:p>
<w:p><w:r><w:t>Workbook: {{Workbook}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Generated: {{Date}}</w:t></w:r></w:p>
<w:p><w:r><w:t>{{Content}}</w:t></w:r></w:p>
</w:body>
</w:document>`},
	}

	for _, part := range parts {
		pw, err := w.Create(part.name)
		if err != nil {
			w.Close()
			return fmt.Errorf("failed to add template part %s: %w", part.name, err)
		}
		if _, err := pw.Write([]byte(part.body)); err != nil {
			w.Close()
			return fmt.Errorf("failed to write template part %s: %w", part.name, err)
		}
	}

	return w.Close()
}
