package document

// Font is the document typeface.
const Font = "Calibri"

// Style carries the presentation attributes a renderer applies to a Block.
// Sizes are in half-points and spacing in twentieths of a point, the units
// word processors use.
type Style struct {
	Bold          bool
	AllCaps       bool
	Size          int
	SpacingBefore int
	SpacingAfter  int
	Bullet        bool
}

const (
	bodySize    = 22
	headingSize = 26
	// NameSize is the size of the candidate name above the first section.
	NameSize = 38
)

// StyleFor returns the style of a block kind.
func StyleFor(k Kind) (style Style) {
	switch k {
	case Heading:
		style = Style{Bold: true, AllCaps: true, Size: headingSize, SpacingBefore: 200, SpacingAfter: 100}
	case EntryHeader:
		style = Style{Bold: true, Size: bodySize, SpacingBefore: 120}
	case Bullet:
		style = Style{Size: bodySize, SpacingAfter: 60, Bullet: true}
	default:
		style = Style{Size: bodySize}
	}
	return style
}
