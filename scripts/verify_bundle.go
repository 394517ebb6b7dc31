package main

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Quick manual check on a produced bundle: lists every entry and prints the
// summary report. Run with: go run scripts/verify_bundle.go output/catalog.zip
func main() {
	bundlePath := "output/catalog.zip"
	if len(os.Args) > 1 {
		bundlePath = os.Args[1]
	}

	r, err := zip.OpenReader(bundlePath)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	fmt.Printf("=== Bundle: %s ===\n", bundlePath)

	images := 0
	var summary string
	for _, f := range r.File {
		fmt.Printf("  %-50s %8d bytes\n", f.Name, f.UncompressedSize64)

		if strings.HasSuffix(f.Name, "/summary.txt") {
			rc, err := f.Open()
			if err != nil {
				log.Fatal(err)
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				log.Fatal(err)
			}
			summary = string(data)
			continue
		}
		images++

		if f.UncompressedSize64 == 0 {
			fmt.Printf("  ⚠️  EMPTY ENTRY: %s\n", f.Name)
		}
	}

	fmt.Printf("\nTotal images: %d\n", images)

	if summary == "" {
		log.Fatal("❌ bundle has no summary.txt")
	}
	fmt.Println("\n=== summary.txt ===")
	fmt.Println(summary)
}
