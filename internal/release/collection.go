package release

import (
	"strings"

	"github.com/northlane-software/updatewing/internal/feed"
)

// Collection is the flattened, order-preserving sequence of releases
// produced from a decoded feed document, each tagged with the early-access
// flag derived from its source category.
type Collection struct {
	Releases []Release
}

// NewCollection flattens the feed's categories into a Collection. A category
// is classified as early-access when its name matches earlyAccessCategory
// case-insensitively; every other category is treated as stable. Categories
// with a nil or empty release list contribute nothing.
func NewCollection(doc *feed.Document, earlyAccessCategory string) (*Collection, error) {
	col := &Collection{}
	if doc == nil {
		return col, nil
	}

	for _, cat := range doc.Categories {
		if cat == nil || len(cat.Releases) == 0 {
			continue
		}
		earlyAccess := strings.EqualFold(cat.Name, earlyAccessCategory)

		for _, raw := range cat.Releases {
			if raw == nil {
				continue
			}
			ver, err := ParseVersion(raw.Version)
			if err != nil {
				return nil, err
			}

			rel := Release{
				Version:     ver,
				ChangeLog:   nonEmptyLines(raw.ChangeLog),
				EarlyAccess: earlyAccess,
			}
			if raw.File != nil {
				rel.File = &FileDescriptor{
					URL:    raw.File.URL,
					SHA512: NormalizeSHA512(raw.File.Sha512CheckSum),
				}
			}
			col.Releases = append(col.Releases, rel)
		}
	}

	return col, nil
}

func nonEmptyLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
