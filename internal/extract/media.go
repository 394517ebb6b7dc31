package extract

import (
	"sort"
	"strconv"
	"strings"

	"img-recon/internal/imaging"
	"img-recon/internal/model"
)

const mediaPrefix = "xl/media/"

// ExtractMediaList lists every raw image part in the container's media
// storage, naturally sorted by filename. It carries no position information
// and is usable only as the last-resort strategy when the media count can be
// matched 1:1 against the target rows.
func ExtractMediaList(src *Source) ([]*model.ImageAnchor, error) {
	var names []string
	for _, name := range src.Pkg.Parts() {
		if strings.HasPrefix(strings.ToLower(name), mediaPrefix) {
			names = append(names, name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return naturalLess(names[i], names[j])
	})

	var anchors []*model.ImageAnchor
	for _, name := range names {
		data, err := src.Pkg.ReadPart(name)
		if err != nil || len(data) == 0 {
			continue
		}
		anchors = append(anchors, &model.ImageAnchor{
			Format:    imaging.Normalize(extOf(name), data),
			Data:      data,
			SourceTag: name,
		})
	}
	return anchors, nil
}

// naturalLess compares strings with numeric runs ordered by value, so
// image2.png sorts before image10.png.
func naturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		aDigit, bDigit := isDigit(a[0]), isDigit(b[0])
		if aDigit && bDigit {
			aNum, aRest := takeNumber(a)
			bNum, bRest := takeNumber(b)
			if aNum != bNum {
				return aNum < bNum
			}
			a, b = aRest, bRest
			continue
		}
		if aDigit != bDigit {
			return aDigit
		}
		ca, cb := lower(a[0]), lower(b[0])
		if ca != cb {
			return ca < cb
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func takeNumber(s string) (int64, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	n, _ := strconv.ParseInt(s[:i], 10, 64)
	return n, s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
